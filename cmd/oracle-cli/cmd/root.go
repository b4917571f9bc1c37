package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AlexxNica/dnssec-oracle/oracle"
)

const DefaultCliCfgFile = "/etc/dnssec-oracle/oracle-cli.yaml"

var cfgFile string
var debug, verbose bool

var api *oracle.ApiClient

var rootCmd = &cobra.Command{
	Use:   "oracle-cli",
	Short: "oracle-cli is a tool used to interact with the oracled daemon via API",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig, initApi)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default is %s)", DefaultCliCfgFile))
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "debug output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigFile(DefaultCliCfgFile)
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		log.Fatalf("Could not load config %s: Error: %v", DefaultCliCfgFile, err)
	}

	oracle.Globals.Verbose = verbose
	oracle.Globals.Debug = debug
	oracle.SetupCliLogging()
}

func initApi() {
	baseurl := viper.GetString("cli.oracled.baseurl")
	apikey := viper.GetString("cli.oracled.apikey")
	authmethod := viper.GetString("cli.oracled.authmethod")

	api = oracle.NewClient("oracled", baseurl, apikey, authmethod, true)
}
