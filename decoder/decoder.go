// Package decoder is the contract identifier / log decoder collaborator
// spec.md §1 describes: it consumes a raw log row, matching topic0 against
// a registry of known event signatures loaded from an ABI config file (the
// "ABI config loading" bootstrap duty, spec.md §9/§11), and logs the decoded
// event fields at debug level; it does not write decoded rows to the store.
// The core calls it once per log and never depends on anything beyond the
// DecodeLog method it exposes to monitor.logDecoder.
package decoder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/hashicorp/go-bexpr"

	"github.com/ethereum-mive/evmcache/types"
)

// contractEntry is one row of the ABI config file: a deployed contract
// address and the ABI describing its events.
type contractEntry struct {
	Address string `json:"address"`
	ABIFile string `json:"abiFile"`
	Name    string `json:"name"`

	// Filter is an optional boolean expression (github.com/hashicorp/go-bexpr
	// syntax) evaluated against the event before it is logged as decoded,
	// e.g. `event == "Transfer"` to ignore every other event this
	// contract's ABI defines.
	Filter string `json:"filter,omitempty"`
}

// filterDatum is what a contractEntry's Filter expression is evaluated
// against.
type filterDatum struct {
	Contract string `bexpr:"contract"`
	Event    string `bexpr:"event"`
	Address  string `bexpr:"address"`
}

// abiConfig is the top-level shape of the ABI config file spec.md §9
// mentions as a Process bootstrap duty.
type abiConfig struct {
	Contracts []contractEntry `json:"contracts"`
}

// eventEntry pairs a parsed ABI event with the contract name it belongs to,
// for the decoded-row Name/Event fields, plus the compiled filter (if any)
// its contractEntry specified.
type eventEntry struct {
	contractName string
	event        abi.Event
	filter       *bexpr.Evaluator
}

// Registry matches a log's (address, topic0) against known contract ABIs
// and decodes its data into named fields.
type Registry struct {
	// byAddress indexes events by the emitting contract's address.
	byAddress map[common.Address]map[common.Hash]eventEntry
}

// Load reads path (a JSON document shaped like abiConfig) and the ABI files
// it references, building a Registry. An empty path yields an empty,
// always-miss Registry — running without contract decoding is valid.
func Load(path string) (*Registry, error) {
	r := &Registry{byAddress: make(map[common.Address]map[common.Hash]eventEntry)}
	if path == "" {
		return r, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("decoder: read abi config: %w", err)
	}
	var cfg abiConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decoder: parse abi config: %w", err)
	}

	for _, entry := range cfg.Contracts {
		if !common.IsHexAddress(entry.Address) {
			return nil, fmt.Errorf("decoder: invalid address %q for %s", entry.Address, entry.Name)
		}
		addr := common.HexToAddress(entry.Address)

		abiRaw, err := os.ReadFile(entry.ABIFile)
		if err != nil {
			return nil, fmt.Errorf("decoder: read abi file %s: %w", entry.ABIFile, err)
		}
		parsed, err := abi.JSON(strings.NewReader(string(abiRaw)))
		if err != nil {
			return nil, fmt.Errorf("decoder: parse abi file %s: %w", entry.ABIFile, err)
		}

		var filter *bexpr.Evaluator
		if entry.Filter != "" {
			filter, err = bexpr.CreateEvaluator(entry.Filter)
			if err != nil {
				return nil, fmt.Errorf("decoder: invalid filter for %s: %w", entry.Name, err)
			}
		}

		events := r.byAddress[addr]
		if events == nil {
			events = make(map[common.Hash]eventEntry)
			r.byAddress[addr] = events
		}
		for _, ev := range parsed.Events {
			events[ev.ID] = eventEntry{contractName: entry.Name, event: ev, filter: filter}
		}
	}
	return r, nil
}

// DecodeLog attempts to decode l against the registry. A miss (unknown
// address or topic0) is not an error — most logs belong to contracts the
// operator never registered, and the monitor persists the raw row
// regardless of whether it can be decoded.
func (r *Registry) DecodeLog(ctx context.Context, logID int64, l *types.Log) error {
	if l.NTopics == 0 {
		return nil
	}
	events, ok := r.byAddress[l.Address]
	if !ok {
		return nil
	}
	entry, ok := events[l.Topics[0]]
	if !ok {
		return nil
	}

	if entry.filter != nil {
		datum := filterDatum{Contract: entry.contractName, Event: entry.event.Name, Address: l.Address.Hex()}
		matched, err := entry.filter.Evaluate(datum)
		if err != nil {
			log.Debug("Log decode: filter evaluation failed", "log_id", logID, "event", entry.event.Name, "err", err)
			return nil
		}
		if !matched {
			return nil
		}
	}

	args := make(map[string]interface{})
	if err := entry.event.Inputs.UnpackIntoMap(args, l.Data); err != nil {
		log.Debug("Log decode: unpack failed", "log_id", logID, "event", entry.event.Name, "err", err)
		return nil
	}

	log.Debug("Decoded log", "log_id", logID, "contract", entry.contractName, "event", entry.event.Name, "args", args)
	return nil
}
