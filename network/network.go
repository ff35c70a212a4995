// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package network holds the table of known Cardano networks. Every network
// lookup in the module goes through this table.
package network

import "strings"

const (
	AddressNetworkTestnet uint8 = 0
	AddressNetworkMainnet uint8 = 1
)

// Network definitions
var (
	Testnet = Network{
		Id:              AddressNetworkTestnet,
		Name:            "testnet",
		NetworkMagic:    1097911063,
		StabilityWindow: 129600,
	}
	Mainnet = Network{
		Id:              AddressNetworkMainnet,
		Name:            "mainnet",
		NetworkMagic:    764824073,
		StabilityWindow: 129600,
	}
	Preprod = Network{
		Id:              AddressNetworkTestnet,
		Name:            "preprod",
		NetworkMagic:    1,
		StabilityWindow: 129600,
	}
	Preview = Network{
		Id:              AddressNetworkTestnet,
		Name:            "preview",
		NetworkMagic:    2,
		StabilityWindow: 25920,
	}
	Sancho = Network{
		Id:              AddressNetworkTestnet,
		Name:            "sanchonet",
		NetworkMagic:    4,
		StabilityWindow: 25920,
	}

	// Unknown is returned by lookups when a network isn't found
	Unknown = Network{
		Name: "unknown",
	}

	// Default is the network used when a caller names a network that isn't
	// in the table. Callers are expected to log the substitution.
	Default = Mainnet
)

// List of valid networks for use in lookup functions
var networks = []Network{
	Testnet,
	Mainnet,
	Preprod,
	Preview,
	Sancho,
}

// Lookup returns a predefined network by name. The match ignores case so
// that "Mainnet" and "mainnet" name the same network.
func Lookup(name string) (Network, bool) {
	name = strings.TrimSpace(name)
	for _, network := range networks {
		if strings.EqualFold(network.Name, name) {
			return network, true
		}
	}
	return Unknown, false
}

// Resolve returns the named network, or Default when the name is unknown.
// The boolean reports whether the fallback was taken.
func Resolve(name string) (Network, bool) {
	if n, ok := Lookup(name); ok {
		return n, false
	}
	return Default, true
}

// ByNetworkMagic returns a predefined network by network magic
func ByNetworkMagic(networkMagic uint32) (Network, bool) {
	for _, network := range networks {
		if network.NetworkMagic == networkMagic {
			return network, true
		}
	}
	return Unknown, false
}

// Network represents a Cardano network
type Network struct {
	Id           uint8 // network ID used for addresses
	Name         string
	NetworkMagic uint32
	// StabilityWindow is 3k/f slots, the horizon within which slot-to-time
	// conversion is known to be stable
	StabilityWindow uint64
}

func (n Network) String() string {
	return n.Name
}

// IsKnown reports whether n came from the network table
func (n Network) IsKnown() bool {
	return n.NetworkMagic != 0
}
