package oracle

// Handlers for the oracled API endpoints. Each handler decodes its post
// struct, dispatches on the command and encodes the response on the way
// out, error or not.

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/AlexxNica/dnssec-oracle/rr"
)

func APIrrset(engine *Engine) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {

		resp := RRsetResponse{
			Time: time.Now(),
		}

		defer func() {
			w.Header().Set("Content-Type", "application/json")
			err := json.NewEncoder(w).Encode(resp)
			if err != nil {
				log.Printf("Error from json encoder: %v", err)
			}
		}()

		decoder := json.NewDecoder(r.Body)
		var rp RRsetPost
		err := decoder.Decode(&rp)
		if err != nil {
			log.Println("APIrrset: error decoding rrset post:", err)
			resp.Error = true
			resp.ErrorMsg = fmt.Sprintf("error decoding rrset post: %v", err)
			return
		}

		log.Printf("APIrrset: received /rrset request (command: %s) from %s.\n",
			rp.Command, r.RemoteAddr)

		name, err := rr.NameFromString(rp.Name)
		if err != nil {
			resp.Error = true
			resp.ErrorMsg = err.Error()
			return
		}
		class := rp.Class
		if class == 0 {
			class = rr.ClassINET
		}

		switch rp.Command {
		case "get":
			set := engine.GetRRset(class, rp.Type, name)
			if set == nil {
				resp.Msg = fmt.Sprintf("no live rrset stored for %s type %d class %d",
					rp.Name, rp.Type, class)
				return
			}
			resp.RRset = set

		case "submit":
			set, err := engine.SubmitRRset(class, name, rp.Payload, rp.Signature)
			if err != nil {
				resp.Error = true
				resp.ErrorMsg = err.Error()
				return
			}
			resp.RRset = set
			resp.Msg = fmt.Sprintf("rrset %s type %d class %d accepted",
				set.Name, set.Type, set.Class)

		default:
			resp.Error = true
			resp.ErrorMsg = fmt.Sprintf("Unknown rrset command: %s", rp.Command)
		}
	}
}

func APIregistry(engine *Engine) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {

		resp := RegistryResponse{
			Time: time.Now(),
		}

		defer func() {
			w.Header().Set("Content-Type", "application/json")
			err := json.NewEncoder(w).Encode(resp)
			if err != nil {
				log.Printf("Error from json encoder: %v", err)
			}
		}()

		decoder := json.NewDecoder(r.Body)
		var rp RegistryPost
		err := decoder.Decode(&rp)
		if err != nil {
			log.Println("APIregistry: error decoding registry post:", err)
			resp.Error = true
			resp.ErrorMsg = fmt.Sprintf("error decoding registry post: %v", err)
			return
		}

		log.Printf("APIregistry: received /registry request (command: %s) from %s.\n",
			rp.Command, r.RemoteAddr)

		switch rp.Command {
		case "add":
			switch rp.Kind {
			case "algorithm":
				id, alg, err := LookupBuiltinAlgorithm(rp.Builtin)
				if err != nil {
					resp.Error = true
					resp.ErrorMsg = err.Error()
					return
				}
				if rp.Id != 0 {
					id = rp.Id
				}
				engine.RegisterAlgorithm(id, alg)
				resp.Msg = fmt.Sprintf("algorithm %d registered (%s)", id, rp.Builtin)

			case "digest":
				id, d, err := LookupBuiltinDigest(rp.Builtin)
				if err != nil {
					resp.Error = true
					resp.ErrorMsg = err.Error()
					return
				}
				if rp.Id != 0 {
					id = rp.Id
				}
				engine.RegisterDigest(id, d)
				resp.Msg = fmt.Sprintf("digest %d registered (%s)", id, rp.Builtin)

			default:
				resp.Error = true
				resp.ErrorMsg = fmt.Sprintf("Unknown registry kind: %s", rp.Kind)
			}

		case "list":
			resp.Algorithms = engine.Registry.AlgorithmIds()
			resp.Digests = engine.Registry.DigestIds()

		default:
			resp.Error = true
			resp.ErrorMsg = fmt.Sprintf("Unknown registry command: %s", rp.Command)
		}
	}
}
