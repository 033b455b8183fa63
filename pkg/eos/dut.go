// Package eos implements the device-under-test adapter for Arista EOS
// switches. The adapter fetches operational state over eAPI and
// validates it against the design's expected checks, one executor per
// check domain.
package eos

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/netmatch-network/netmatch/pkg/check"
	"github.com/netmatch-network/netmatch/pkg/design"
	"github.com/netmatch-network/netmatch/pkg/eapi"
	"github.com/netmatch-network/netmatch/pkg/util"
)

// ExecutorFunc evaluates one check collection against live device
// state and returns a result per check, in check order.
type ExecutorFunc func(ctx context.Context, collection *check.Collection) (check.Results, error)

// VersionInfo is the parsed "show version" response.
type VersionInfo struct {
	ModelName        string `json:"modelName"`
	Version          string `json:"version"`
	Architecture     string `json:"architecture"`
	HardwareRevision string `json:"hardwareRevision"`
	InternalVersion  string `json:"internalVersion"`
	SerialNumber     string `json:"serialNumber"`
	SystemMACAddress string `json:"systemMacAddress"`
}

// DUT is a live EOS device under test. It pairs the device's design
// record with an eAPI client and dispatches check collections to the
// registered executors. A DUT is bound to one device for its lifetime.
type DUT struct {
	Name    string
	Design  *design.Device
	Client  *eapi.Client
	Version VersionInfo

	// ModelAliases maps device-reported transceiver model names to the
	// names the design uses for them.
	ModelAliases map[string]string

	executors map[check.Type]ExecutorFunc

	mu    sync.Mutex
	ready bool

	cacheMu sync.Mutex
	cache   map[string][]json.RawMessage
}

// New creates a DUT bound to its design record and eAPI client, with
// all built-in executors registered.
func New(name string, dev *design.Device, client *eapi.Client) *DUT {
	d := &DUT{
		Name:   name,
		Design: dev,
		Client: client,
		cache:  make(map[string][]json.RawMessage),
	}
	d.executors = map[check.Type]ExecutorFunc{
		check.TypeDeviceInfo:   d.checkDeviceInfo,
		check.TypeInterfaces:   d.checkInterfaces,
		check.TypeTransceivers: d.checkTransceivers,
		check.TypeCabling:      d.checkCabling,
		check.TypeVlans:        d.checkVlans,
		check.TypeSwitchports:  d.checkSwitchports,
		check.TypeLags:         d.checkLags,
		check.TypeMlags:        d.checkMlags,
		check.TypeIPAddrs:      d.checkIPAddrs,
		check.TypeBGPPeering:   d.checkBGPPeering,
		check.TypeBGPRouters:   d.checkBGPRouters,
	}
	return d
}

// RegisterExecutor binds an executor to a check type, replacing any
// previous binding. Registering the same binding again is a no-op.
func (d *DUT) RegisterExecutor(t check.Type, fn ExecutorFunc) {
	d.executors[t] = fn
}

// SupportedTypes lists the check types the DUT has executors for:
// built-in types in report order, then custom registrations sorted by
// name.
func (d *DUT) SupportedTypes() []check.Type {
	var types []check.Type
	for _, t := range check.AllTypes {
		if _, ok := d.executors[t]; ok {
			types = append(types, t)
		}
	}
	var extra []string
	for t := range d.executors {
		if !t.Valid() {
			extra = append(extra, string(t))
		}
	}
	sort.Strings(extra)
	for _, t := range extra {
		types = append(types, check.Type(t))
	}
	return types
}

// Setup verifies the device is reachable and learns its version info.
// On failure the session is torn down and the DUT must not be used.
func (d *DUT) Setup(ctx context.Context) error {
	if err := d.Client.CheckConnection(ctx); err != nil {
		d.Teardown()
		return fmt.Errorf("%s: setup: %w", d.Name, err)
	}

	res, err := d.Client.Run(ctx, []string{"show version"})
	if err != nil {
		d.Teardown()
		return fmt.Errorf("%s: setup: show version: %w", d.Name, err)
	}
	if err := json.Unmarshal(res[0], &d.Version); err != nil {
		d.Teardown()
		return fmt.Errorf("%s: setup: decode version info: %w", d.Name, err)
	}

	d.mu.Lock()
	d.ready = true
	d.mu.Unlock()

	util.WithDevice(d.Name).Infof("Connected: %s EOS %s", d.Version.ModelName, d.Version.Version)
	return nil
}

// Teardown closes the session and drops all cached responses. Safe to
// call more than once.
func (d *DUT) Teardown() {
	d.CacheClear()
	if d.Client != nil {
		d.Client.Close()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ready {
		return
	}
	d.ready = false
	util.WithDevice(d.Name).Info("Disconnected")
}

// Ready reports whether Setup completed and Teardown has not run.
func (d *DUT) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready
}

// Run dispatches a check collection to its registered executor and
// returns results stamped with the device name. A collection of an
// unregistered type yields a single Skip result rather than an error;
// an executor's RPC failure aborts the whole collection.
func (d *DUT) Run(ctx context.Context, collection *check.Collection) (check.Results, error) {
	if !d.Ready() {
		return nil, fmt.Errorf("%s: %w", d.Name, util.ErrNotConnected)
	}
	if collection.Device != "" && collection.Device != d.Name {
		return nil, fmt.Errorf("%s: collection belongs to device %s", d.Name, collection.Device)
	}

	log := util.WithCheck(d.Name, string(collection.Type))

	exec, ok := d.executors[collection.Type]
	if !ok {
		log.Warn("no executor registered")
		skip := check.NewSkip(
			&check.Check{Type: collection.Type, ID: "unsupported"},
			fmt.Sprintf("%s: no executor for check type %q", d.Name, collection.Type),
		)
		skip.Device = d.Name
		return check.Results{skip}, nil
	}

	log.Debugf("running %d checks", len(collection.Checks))
	results, err := exec(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("%s: %s checks: %w", d.Name, collection.Type, err)
	}

	for _, r := range results {
		if r.Device == "" {
			r.Device = d.Name
		}
	}
	log.Infof("completed: %d results, %d failures", len(results), len(results.Failures()))
	return results, nil
}
