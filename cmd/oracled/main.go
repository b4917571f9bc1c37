package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/AlexxNica/dnssec-oracle/oracle"
)

var appVersion = "v0.3.1"

func mainloop(conf *oracle.Config) {
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		for {
			select {
			case <-exit:
				log.Println("mainloop: Exit signal received. Cleaning up.")
				wg.Done()
			case <-conf.Internal.APIStopCh:
				log.Println("mainloop: Stop command received. Cleaning up.")
				wg.Done()
			}
		}
	}()
	wg.Wait()

	fmt.Println("mainloop: leaving signal dispatcher")
}

func main() {
	var conf oracle.Config

	conf.Internal.ServerBootTime = time.Now()
	conf.App.Name = "oracled"
	conf.App.Version = appVersion

	flag.StringVar(&conf.Internal.CfgFile, "config", oracle.DefaultCfgFile, "Config file")
	flag.BoolVarP(&oracle.Globals.Debug, "debug", "d", false, "Debug mode")
	flag.BoolVarP(&oracle.Globals.Verbose, "verbose", "v", false, "Verbose mode")
	flag.Parse()

	err := oracle.ParseConfig(&conf)
	if err != nil {
		log.Fatalf("Error parsing config: %v", err)
	}

	logfile := viper.GetString("log.file")
	oracle.SetupLogging(logfile)
	fmt.Printf("Logging to file: %s\n", logfile)

	fmt.Printf("ORACLED version %s starting.\n", appVersion)

	db, err := oracle.NewDB(conf.Db.File)
	if err != nil {
		log.Fatalf("Error opening database %s: %v", conf.Db.File, err)
	}

	store := oracle.NewTrustStore(db)
	n, err := store.Load()
	if err != nil {
		log.Fatalf("Error loading rrset store: %v", err)
	}
	log.Printf("Loaded %d rrsets from %s", n, conf.Db.File)

	anchor, err := conf.Anchor.AnchorWire()
	if err != nil {
		log.Fatalf("Error parsing trust anchor: %v", err)
	}

	engine, err := oracle.NewEngine(store, oracle.DefaultRegistry(), anchor)
	if err != nil {
		log.Fatalf("Error creating engine: %v", err)
	}
	conf.Internal.Engine = engine

	var stopch = make(chan struct{}, 10)
	go engine.NotifierEngine(stopch)

	apistopper := make(chan struct{})
	conf.Internal.APIStopCh = apistopper
	go APIdispatcher(&conf, apistopper)

	mainloop(&conf)
}
