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

package network_test

import (
	"testing"

	"github.com/blinklabs-io/tx-anatomy/network"
	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	testDefs := []struct {
		name  string
		magic uint32
		found bool
	}{
		{name: "mainnet", magic: 764824073, found: true},
		{name: "Mainnet", magic: 764824073, found: true},
		{name: "PREPROD", magic: 1, found: true},
		{name: "Preview", magic: 2, found: true},
		{name: "sanchonet", magic: 4, found: true},
		{name: "guildnet", found: false},
		{name: "", found: false},
	}
	for _, testDef := range testDefs {
		n, ok := network.Lookup(testDef.name)
		assert.Equal(t, testDef.found, ok, testDef.name)
		assert.Equal(t, testDef.magic, n.NetworkMagic, testDef.name)
		assert.Equal(t, testDef.found, n.IsKnown(), testDef.name)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	n, fellBack := network.Resolve("nowhere")
	assert.True(t, fellBack)
	assert.Equal(t, network.Default, n)

	n, fellBack = network.Resolve("preview")
	assert.False(t, fellBack)
	assert.Equal(t, network.Preview, n)
}

func TestByNetworkMagic(t *testing.T) {
	n, ok := network.ByNetworkMagic(2)
	assert.True(t, ok)
	assert.Equal(t, "preview", n.String())
	_, ok = network.ByNetworkMagic(42)
	assert.False(t, ok)
}
