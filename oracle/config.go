package oracle

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/miekg/dns"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const DefaultCfgFile = "/etc/dnssec-oracle/oracled.yaml"

type Config struct {
	App struct {
		Name    string
		Version string
		Date    string
	}
	Service   ServiceConf
	ApiServer ApiserverConf
	Db        DbConf
	Anchor    AnchorConf
	Log       struct {
		File string `validate:"required"`
	}
	Internal InternalConf
}

type ServiceConf struct {
	Name    string `validate:"required"`
	Debug   *bool
	Verbose *bool
}

type ApiserverConf struct {
	Address string `validate:"required"`
	ApiKey  string `validate:"required"`
}

type DbConf struct {
	File string `validate:"required"`
}

// AnchorConf carries the root trust anchor as presentation-format DS
// records (the same strings IANA publishes for the root zone), either
// inline or in a separate YAML file with a top-level "ds" list.
type AnchorConf struct {
	DS   []string
	File string
}

type InternalConf struct {
	CfgFile        string
	Engine         *Engine
	APIStopCh      chan struct{}
	ServerBootTime time.Time
}

func ParseConfig(conf *Config) error {
	if Globals.Debug {
		log.Printf("Enter ParseConfig")
	}
	cfgfile := conf.Internal.CfgFile
	if cfgfile == "" {
		cfgfile = DefaultCfgFile
	}
	viper.SetConfigFile(cfgfile)

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else {
		log.Fatalf("Could not load config %s: Error: %v", cfgfile, err)
	}

	if err := viper.Unmarshal(&conf); err != nil {
		log.Fatalf("Error unmarshalling config into struct: %v", err)
	}

	if conf.Service.Verbose != nil {
		Globals.Verbose = *conf.Service.Verbose
	}
	if conf.Service.Debug != nil {
		Globals.Debug = *conf.Service.Debug
	}

	ValidateConfig(conf, cfgfile) // will terminate on error

	if conf.Anchor.File != "" {
		cfgdata, err := os.ReadFile(conf.Anchor.File)
		if err != nil {
			log.Fatalf("Error from ReadFile: %v", err)
		}
		var aconf struct {
			DS []string `yaml:"ds"`
		}
		if err := yaml.Unmarshal(cfgdata, &aconf); err != nil {
			log.Fatalf("Error from yaml.Unmarshal(anchor file): %v", err)
		}
		conf.Anchor.DS = append(conf.Anchor.DS, aconf.DS...)
	}
	if len(conf.Anchor.DS) == 0 {
		log.Fatalf("Config %s: no trust anchor DS records configured (key anchor.ds or anchor.file)", cfgfile)
	}

	return nil
}

func ValidateConfig(conf *Config, cfgfile string) {
	validate := validator.New()

	var configsections = make(map[string]interface{}, 5)

	configsections["log"] = conf.Log
	configsections["service"] = conf.Service
	configsections["db"] = conf.Db
	configsections["apiserver"] = conf.ApiServer

	for k, data := range configsections {
		if Globals.Debug {
			log.Printf("Validating config for %q section", k)
		}
		if err := validate.Struct(data); err != nil {
			log.Fatalf("Config %s, section %s: missing required attributes:\n%v", cfgfile, k, err)
		}
	}
}

// AnchorWire converts the configured presentation-format DS records to the
// concatenated wire form the engine seeds the store with. Every record must
// be a DS record for the root.
func (c *AnchorConf) AnchorWire() ([]byte, error) {
	var out []byte
	for _, s := range c.DS {
		r, err := dns.NewRR(s)
		if err != nil {
			return nil, fmt.Errorf("cannot parse anchor DS record %q: %v", s, err)
		}
		ds, ok := r.(*dns.DS)
		if !ok {
			return nil, fmt.Errorf("anchor record %q is not a DS record", s)
		}
		if strings.ToLower(ds.Hdr.Name) != "." {
			return nil, fmt.Errorf("anchor DS record %q is not for the root", s)
		}
		buf := make([]byte, dns.Len(ds))
		off, err := dns.PackRR(ds, buf, 0, nil, false)
		if err != nil {
			return nil, fmt.Errorf("cannot pack anchor DS record %q: %v", s, err)
		}
		out = append(out, buf[:off]...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no anchor DS records configured")
	}
	return out, nil
}
