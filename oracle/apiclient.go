package oracle

// Client side API client calls

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

type ApiClient struct {
	Name       string
	Client     *http.Client
	BaseUrl    string
	apiKey     string
	AuthMethod string
	Verbose    bool
	Debug      bool
}

func NewClient(name, baseurl, apikey, authmethod string, insecure bool) *ApiClient {
	api := ApiClient{
		Name:       name,
		BaseUrl:    baseurl,
		apiKey:     apikey,
		AuthMethod: authmethod,
	}

	tlsconfig := &tls.Config{}
	if insecure {
		tlsconfig.InsecureSkipVerify = true
	}
	api.Client = &http.Client{
		Transport: &http.Transport{TLSClientConfig: tlsconfig},
	}

	api.Verbose = Globals.Verbose
	api.Debug = Globals.Debug

	return &api
}

// request helper function
func (api *ApiClient) requestHelper(req *http.Request) (int, []byte, error) {

	req.Header.Add("Content-Type", "application/json")

	if api.AuthMethod == "" {
		// do not add any authentication header at all
	} else if api.AuthMethod == "X-API-Key" {
		req.Header.Add("X-API-Key", api.apiKey)
	} else if api.AuthMethod == "Authorization" {
		req.Header.Add("Authorization", fmt.Sprintf("token %s", api.apiKey))
	} else {
		log.Printf("Error: Client API Post: unknown auth method: %s. Aborting.\n",
			api.AuthMethod)
		return 501, []byte{}, fmt.Errorf("unknown auth method: %s", api.AuthMethod)
	}

	if api.apiKey == "" {
		log.Fatalf("api.requestHelper: Error: apikey not set.\n")
	}

	resp, err := api.Client.Do(req)
	if err != nil {
		return 501, nil, err
	}

	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	if api.Debug {
		var prettyJSON bytes.Buffer
		jerr := json.Indent(&prettyJSON, buf, "", "  ")
		if jerr != nil {
			log.Println("JSON parse error: ", jerr)
		}
		fmt.Printf("requestHelper: received %d bytes of response data:\n%s\n", len(buf),
			prettyJSON.String())
	}

	return resp.StatusCode, buf, err
}

func (api *ApiClient) Post(endpoint string, data []byte) (int, []byte, error) {
	if api == nil {
		return 501, nil, fmt.Errorf("api client is nil")
	}

	if api.Debug {
		var prettyJSON bytes.Buffer
		jerr := json.Indent(&prettyJSON, data, "", "  ")
		if jerr != nil {
			log.Println("JSON parse error: ", jerr)
		}
		fmt.Printf("api.Post: posting to URL '%s' %d bytes of data:\n%s\n",
			api.BaseUrl+endpoint, len(data), prettyJSON.String())
	}

	req, err := http.NewRequest(http.MethodPost, api.BaseUrl+endpoint,
		bytes.NewBuffer(data))
	if err != nil {
		log.Fatalf("Error from http.NewRequest: Error: %v", err)
	}
	return api.requestHelper(req)
}
