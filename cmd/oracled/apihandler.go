package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"

	"github.com/AlexxNica/dnssec-oracle/oracle"
)

type CommandPost struct {
	Command string `json:"command"`
}

type CommandResponse struct {
	Time     time.Time `json:"time"`
	Status   string    `json:"status"`
	Msg      string    `json:"msg,omitempty"`
	Error    bool      `json:"error,omitempty"`
	ErrorMsg string    `json:"errormsg,omitempty"`
}

func APIcommand(conf *oracle.Config) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {

		decoder := json.NewDecoder(r.Body)
		var cp CommandPost
		err := decoder.Decode(&cp)
		if err != nil {
			log.Println("APICommand: error decoding command post:", err)
		}

		log.Printf("API: received /command request (cmd: %s) from %s.\n",
			cp.Command, r.RemoteAddr)

		resp := CommandResponse{
			Time: time.Now(),
		}

		switch cp.Command {
		case "status":
			log.Printf("Daemon status inquiry\n")
			resp.Status = "ok" // only status we know, so far
			resp.Msg = fmt.Sprintf("%d rrsets stored", conf.Internal.Engine.Store.Count())

		case "stop":
			log.Printf("Daemon instructed to stop\n")
			resp.Status = "stopping"
			resp.Msg = "Daemon was happy, but now winding down"

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
			time.Sleep(500 * time.Millisecond)
			conf.Internal.APIStopCh <- struct{}{}

		default:
			resp.ErrorMsg = fmt.Sprintf("Unknown command: %s", cp.Command)
			resp.Error = true
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func SetupRouter(conf *oracle.Config) *mux.Router {
	engine := conf.Internal.Engine
	r := mux.NewRouter().StrictSlash(true)

	sr := r.PathPrefix("/api/v1").Headers("X-API-Key", viper.GetString("apiserver.apikey")).Subrouter()

	sr.HandleFunc("/ping", oracle.APIping(conf.App.Name, conf.App.Version, conf.Internal.ServerBootTime)).Methods("POST")
	sr.HandleFunc("/rrset", oracle.APIrrset(engine)).Methods("POST")
	sr.HandleFunc("/registry", oracle.APIregistry(engine)).Methods("POST")
	sr.HandleFunc("/command", APIcommand(conf)).Methods("POST")

	return r
}

func walkRoutes(router *mux.Router, address string) {
	log.Printf("Defined API endpoints for router on: %s\n", address)

	walker := func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, _ := route.GetPathTemplate()
		methods, _ := route.GetMethods()
		for m := range methods {
			log.Printf("%-6s %s\n", methods[m], path)
		}
		return nil
	}
	if err := router.Walk(walker); err != nil {
		log.Panicf("Logging err: %s\n", err.Error())
	}
}

// In practice APIdispatcher doesn't need a termination signal, as it will
// just sit inside http.ListenAndServe, but we keep it for symmetry.
func APIdispatcher(conf *oracle.Config, done <-chan struct{}) {
	router := SetupRouter(conf)

	walkRoutes(router, viper.GetString("apiserver.address"))
	log.Println("")

	address := viper.GetString("apiserver.address")

	go func() {
		log.Println("Starting API dispatcher. Listening on", address)
		log.Fatal(http.ListenAndServe(address, router))
	}()
}
