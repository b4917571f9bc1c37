package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/AlexxNica/dnssec-oracle/oracle"
)

var registryKind, registryBuiltin string
var registryId int

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Prefix command to inspect and modify the oracled capability registry",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("registry called. This is likely a mistake, sub command needed")
	},
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the algorithm and digest ids oracled can currently verify",
	Run: func(cmd *cobra.Command, args []string) {
		rr, err := SendRegistry(oracle.RegistryPost{
			Command: "list",
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		var out = []string{"Kind|Id|Name"}
		for _, id := range rr.Algorithms {
			out = append(out, fmt.Sprintf("algorithm|%d|%s", id, oracle.AlgorithmNames[id]))
		}
		for _, id := range rr.Digests {
			out = append(out, fmt.Sprintf("digest|%d|%s", id, oracle.DigestNames[id]))
		}
		fmt.Printf("%s\n", columnize.SimpleFormat(out))
	},
}

var registryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a built-in implementation for an algorithm or digest id",
	Run: func(cmd *cobra.Command, args []string) {
		if registryBuiltin == "" {
			fmt.Printf("Error: built-in implementation not specified (with --builtin)\n")
			os.Exit(1)
		}

		rr, err := SendRegistry(oracle.RegistryPost{
			Command: "add",
			Kind:    registryKind,
			Id:      uint8(registryId),
			Builtin: registryBuiltin,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", rr.Msg)
	},
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registryListCmd)
	registryCmd.AddCommand(registryAddCmd)

	registryAddCmd.Flags().StringVarP(&registryKind, "kind", "k", "algorithm", "Kind of capability: algorithm | digest")
	registryAddCmd.Flags().StringVarP(&registryBuiltin, "builtin", "b", "", "Name of the built-in implementation (e.g. RSASHA256)")
	registryAddCmd.Flags().IntVarP(&registryId, "id", "i", 0, "Override id to register the implementation under")
}

func SendRegistry(data oracle.RegistryPost) (oracle.RegistryResponse, error) {
	var rres oracle.RegistryResponse

	bytebuf := new(bytes.Buffer)
	json.NewEncoder(bytebuf).Encode(data)

	status, buf, err := api.Post("/registry", bytebuf.Bytes())
	if err != nil {
		log.Println("Error from Api Post:", err)
		return rres, fmt.Errorf("Error from api post: %v", err)
	}
	if verbose {
		fmt.Printf("Status: %d\n", status)
	}

	err = json.Unmarshal(buf, &rres)
	if err != nil {
		return rres, fmt.Errorf("Error from unmarshal: %v", err)
	}

	if rres.Error {
		return rres, fmt.Errorf("Error from oracled: %s", rres.ErrorMsg)
	}

	return rres, nil
}
