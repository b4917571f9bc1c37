package cmd

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"

	"github.com/AlexxNica/dnssec-oracle/oracle"
	"github.com/AlexxNica/dnssec-oracle/rr"
)

var rrsetName, rrsetType, rrsetFile string

var rrsetCmd = &cobra.Command{
	Use:   "rrset",
	Short: "Prefix command to query and submit record sets held by oracled",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("rrset called. This is likely a mistake, sub command needed")
	},
}

var rrsetGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch a stored, still valid record set from oracled",
	Run: func(cmd *cobra.Command, args []string) {
		if rrsetName == "" {
			fmt.Printf("Error: name of record set not specified (with --name)\n")
			os.Exit(1)
		}
		rrtype, ok := dns.StringToType[strings.ToUpper(rrsetType)]
		if !ok {
			fmt.Printf("Error: unknown record type %q\n", rrsetType)
			os.Exit(1)
		}

		rres, err := SendRRset(oracle.RRsetPost{
			Command: "get",
			Name:    dns.Fqdn(rrsetName),
			Type:    rrtype,
			Class:   rr.ClassINET,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if rres.RRset == nil {
			fmt.Printf("%s\n", rres.Msg)
			return
		}
		set := rres.RRset
		fmt.Printf("%s type %s: inception %s, expiration %s, inserted %s\n",
			set.Name, dns.TypeToString[set.Type],
			time.Unix(int64(set.Inception), 0).UTC().Format(time.RFC3339),
			time.Unix(int64(set.Expiration), 0).UTC().Format(time.RFC3339),
			time.Unix(int64(set.InsertedAt), 0).UTC().Format(time.RFC3339))
		for off := 0; off < len(set.Wire); {
			r, next, err := dns.UnpackRR(set.Wire, off)
			if err != nil {
				fmt.Printf("Error: stored record at offset %d does not parse: %v\n", off, err)
				os.Exit(1)
			}
			fmt.Printf("%s\n", r.String())
			off = next
		}
	},
}

var rrsetSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a signed record set (zone file with one RRSIG plus its covered records) to oracled",
	Run: func(cmd *cobra.Command, args []string) {
		if rrsetFile == "" {
			fmt.Printf("Error: file with signed records not specified (with --file)\n")
			os.Exit(1)
		}
		name, payload, signature, err := AssemblePayload(rrsetFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		rres, err := SendRRset(oracle.RRsetPost{
			Command:   "submit",
			Name:      name,
			Class:     rr.ClassINET,
			Payload:   payload,
			Signature: signature,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", rres.Msg)
	},
}

func init() {
	rootCmd.AddCommand(rrsetCmd)
	rrsetCmd.AddCommand(rrsetGetCmd)
	rrsetCmd.AddCommand(rrsetSubmitCmd)

	rrsetCmd.PersistentFlags().StringVarP(&rrsetName, "name", "n", "", "Owner name of the record set")
	rrsetGetCmd.Flags().StringVarP(&rrsetType, "type", "t", "", "Record type of the record set")
	rrsetSubmitCmd.Flags().StringVarP(&rrsetFile, "file", "f", "", "Zone file with the RRSIG and its covered records")
}

// AssemblePayload reads a zone-file fragment holding exactly one RRSIG plus
// the records it covers and rebuilds the signed-set convention oracled
// expects: the signature-less RRSIG header followed by the covered records
// in canonical form (lowercased owner name, TTL reset to the original TTL).
func AssemblePayload(filename string) (string, []byte, []byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", nil, nil, err
	}
	defer f.Close()

	var sig *dns.RRSIG
	var covered []dns.RR

	zp := dns.NewZoneParser(f, "", filename)
	for r, ok := zp.Next(); ok; r, ok = zp.Next() {
		if s, isSig := r.(*dns.RRSIG); isSig {
			if sig != nil {
				return "", nil, nil, fmt.Errorf("file %s holds more than one RRSIG", filename)
			}
			sig = s
			continue
		}
		covered = append(covered, r)
	}
	if err := zp.Err(); err != nil {
		return "", nil, nil, fmt.Errorf("cannot parse %s: %v", filename, err)
	}
	if sig == nil {
		return "", nil, nil, fmt.Errorf("file %s holds no RRSIG", filename)
	}
	if len(covered) == 0 {
		return "", nil, nil, fmt.Errorf("file %s holds no covered records", filename)
	}

	signer, err := rr.NameFromString(sig.SignerName)
	if err != nil {
		return "", nil, nil, err
	}
	header := rr.SignedSetHeader{
		TypeCovered: sig.TypeCovered,
		Algorithm:   sig.Algorithm,
		Labels:      sig.Labels,
		OrigTTL:     sig.OrigTtl,
		Expiration:  sig.Expiration,
		Inception:   sig.Inception,
		KeyTag:      sig.KeyTag,
		SignerName:  signer.Canonical(),
	}

	payload := header.Pack()
	for _, c := range covered {
		c.Header().Name = strings.ToLower(c.Header().Name)
		c.Header().Ttl = sig.OrigTtl
		buf := make([]byte, dns.Len(c))
		off, err := dns.PackRR(c, buf, 0, nil, false)
		if err != nil {
			return "", nil, nil, fmt.Errorf("cannot pack record %s: %v", c.String(), err)
		}
		payload = append(payload, buf[:off]...)
	}

	signature, err := base64.StdEncoding.DecodeString(sig.Signature)
	if err != nil {
		return "", nil, nil, fmt.Errorf("cannot decode signature: %v", err)
	}

	return strings.ToLower(sig.Hdr.Name), payload, signature, nil
}

func SendRRset(data oracle.RRsetPost) (oracle.RRsetResponse, error) {
	var rres oracle.RRsetResponse

	bytebuf := new(bytes.Buffer)
	json.NewEncoder(bytebuf).Encode(data)

	status, buf, err := api.Post("/rrset", bytebuf.Bytes())
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
