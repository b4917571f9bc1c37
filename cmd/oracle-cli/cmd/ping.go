package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlexxNica/dnssec-oracle/oracle"
)

var pingCount int

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send a ping request to the oracled daemon and present the response",
	Run: func(cmd *cobra.Command, args []string) {
		pr, err := SendPing(pingCount)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s from %s @ %s (version %s, booted %s)\n",
			pr.Msg, "oracled", pr.Client, pr.Version, pr.BootTime.Format("2006-01-02 15:04:05"))
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVarP(&pingCount, "count", "c", 1, "#pings to send")
}

func SendPing(pings int) (oracle.PingResponse, error) {
	var pr oracle.PingResponse

	bytebuf := new(bytes.Buffer)
	json.NewEncoder(bytebuf).Encode(oracle.PingPost{
		Msg:   "ping",
		Pings: pings,
	})

	status, buf, err := api.Post("/ping", bytebuf.Bytes())
	if err != nil {
		log.Println("Error from Api Post:", err)
		return pr, fmt.Errorf("Error from api post: %v", err)
	}
	if verbose {
		fmt.Printf("Status: %d\n", status)
	}

	err = json.Unmarshal(buf, &pr)
	if err != nil {
		return pr, fmt.Errorf("Error from unmarshal: %v", err)
	}

	return pr, nil
}
