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

package diagnostic_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/blinklabs-io/tx-anatomy/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributesKeepInsertionOrder(t *testing.T) {
	var ttl *uint64
	fee := uint64(170000)
	s := diagnostic.New().
		WithTopic("tx").
		WithAttr("era", "Babbage").
		WithMaybeAttr("fee", diagnostic.Maybe(&fee)).
		WithMaybeAttr("ttl", diagnostic.Maybe(ttl))
	require.Len(t, s.Attributes, 3)
	assert.Equal(t, "era", s.Attributes[0].Topic)
	assert.Equal(t, "fee", s.Attributes[1].Topic)
	assert.Equal(t, "170000", *s.Attributes[1].Value)
	assert.Equal(t, "ttl", s.Attributes[2].Topic)
	assert.Nil(t, s.Attributes[2].Value)
}

func TestAbsentValueMarshalsAsNull(t *testing.T) {
	s := diagnostic.New().WithMaybeAttr("start", nil)
	out, err := json.Marshal(s.Attributes[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"start","value":null}`, string(out))
}

func TestTryBuildChildRecordsErrorOnParent(t *testing.T) {
	parent := diagnostic.New().WithTopic("cbor_parse")
	parent.TryBuildChild(func() (*diagnostic.Section, error) {
		return nil, errors.New("invalid CBOR structure")
	})
	require.NotNil(t, parent.Error)
	assert.Equal(t, "invalid CBOR structure", *parent.Error)
	assert.Empty(t, parent.Children)

	parent = diagnostic.New()
	parent.TryBuildChild(func() (*diagnostic.Section, error) {
		return diagnostic.New().WithTopic("tx"), nil
	})
	assert.Nil(t, parent.Error)
	require.Len(t, parent.Children, 1)
	assert.NotNil(t, parent.Child("tx"))
}

func TestCollectAndAppendChildren(t *testing.T) {
	s := diagnostic.New()
	s.CollectChildren([]*diagnostic.Section{
		diagnostic.New().WithTopic("a"),
		nil,
		diagnostic.New().WithTopic("b"),
	})
	require.Len(t, s.Children, 2)
	s.CollectChildren([]*diagnostic.Section{diagnostic.New().WithTopic("c")})
	require.Len(t, s.Children, 1)
	s.AppendChildren([]*diagnostic.Section{diagnostic.New().WithTopic("d")})
	require.Len(t, s.Children, 2)
	assert.Equal(t, "c", *s.Children[0].Topic)
	assert.Equal(t, "d", *s.Children[1].Topic)
}

func TestWithBytesIsHex(t *testing.T) {
	s := diagnostic.New().WithBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.Equal(t, "deadbeef", *s.Bytes)
	assert.Nil(t, diagnostic.MaybeHex(nil))
}

func TestErrorSection(t *testing.T) {
	s := diagnostic.ErrorSection(errors.New("boom"))
	assert.Nil(t, s.Topic)
	assert.Equal(t, "boom", *s.Error)
	assert.Empty(t, s.Children)
	assert.Empty(t, s.Attributes)
}
