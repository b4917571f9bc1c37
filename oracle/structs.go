package oracle

import (
	"time"
)

// GlobalStuff carries process-wide knobs shared by the daemon and CLI.
type GlobalStuff struct {
	Verbose bool
	Debug   bool
	ApiKey  string
	BaseUri string
}

var Globals = GlobalStuff{
	Verbose: false,
	Debug:   false,
}

// RRset is a stored, verified record set: the canonicalized wire bytes of
// the member records plus the temporal bounds from the signature that
// admitted them and the commit time.
type RRset struct {
	Name       string `json:"name"` // presentation form, for display
	Type       uint16 `json:"type"`
	Class      uint16 `json:"class"`
	Inception  uint32 `json:"inception"`
	Expiration uint32 `json:"expiration"`
	InsertedAt uint32 `json:"inserted_at"`
	Wire       []byte `json:"wire"` // concatenated canonical wire records
}

// Command API request/response types.

type RRsetPost struct {
	Command   string `json:"command"` // "get" or "submit"
	Name      string `json:"name"`    // presentation-form owner name
	Type      uint16 `json:"type,omitempty"`
	Class     uint16 `json:"class"`
	Payload   []byte `json:"payload,omitempty"`   // signature header + covered records, wire
	Signature []byte `json:"signature,omitempty"` // raw signature bytes
}

type RRsetResponse struct {
	Time     time.Time `json:"time"`
	RRset    *RRset    `json:"rrset,omitempty"`
	Msg      string    `json:"msg,omitempty"`
	Error    bool      `json:"error,omitempty"`
	ErrorMsg string    `json:"errormsg,omitempty"`
}

type RegistryPost struct {
	Command string `json:"command"` // "add" or "list"
	Kind    string `json:"kind"`    // "algorithm" or "digest"
	Id      uint8  `json:"id,omitempty"`
	Builtin string `json:"builtin,omitempty"` // name of a built-in implementation
}

type RegistryResponse struct {
	Time       time.Time `json:"time"`
	Algorithms []uint8   `json:"algorithms,omitempty"`
	Digests    []uint8   `json:"digests,omitempty"`
	Msg        string    `json:"msg,omitempty"`
	Error      bool      `json:"error,omitempty"`
	ErrorMsg   string    `json:"errormsg,omitempty"`
}

type PingPost struct {
	Msg   string `json:"msg"`
	Pings int    `json:"pings"`
}

type PingResponse struct {
	Time     time.Time `json:"time"`
	BootTime time.Time `json:"boottime"`
	Version  string    `json:"version"`
	Client   string    `json:"client"`
	Msg      string    `json:"msg"`
	Pings    int       `json:"pings"`
	Pongs    int       `json:"pongs"`
}
