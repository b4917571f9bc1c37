package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type commandPost struct {
	Command string `json:"command"`
}

type commandResponse struct {
	Time     time.Time `json:"time"`
	Status   string    `json:"status"`
	Msg      string    `json:"msg,omitempty"`
	Error    bool      `json:"error,omitempty"`
	ErrorMsg string    `json:"errormsg,omitempty"`
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Prefix command to control the oracled daemon",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("daemon called. This is likely a mistake, sub command needed")
	},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query oracled for its current status",
	Run: func(cmd *cobra.Command, args []string) {
		cr, err := SendCommand("status")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %s\n", cr.Status, cr.Msg)
	},
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Instruct oracled to stop",
	Run: func(cmd *cobra.Command, args []string) {
		cr, err := SendCommand("stop")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %s\n", cr.Status, cr.Msg)
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func SendCommand(command string) (commandResponse, error) {
	var cr commandResponse

	bytebuf := new(bytes.Buffer)
	json.NewEncoder(bytebuf).Encode(commandPost{Command: command})

	status, buf, err := api.Post("/command", bytebuf.Bytes())
	if err != nil {
		log.Println("Error from Api Post:", err)
		return cr, fmt.Errorf("Error from api post: %v", err)
	}
	if verbose {
		fmt.Printf("Status: %d\n", status)
	}

	err = json.Unmarshal(buf, &cr)
	if err != nil {
		return cr, fmt.Errorf("Error from unmarshal: %v", err)
	}

	if cr.Error {
		return cr, fmt.Errorf("Error from oracled: %s", cr.ErrorMsg)
	}

	return cr, nil
}
