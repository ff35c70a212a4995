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

// Package blockfrost implements the chain-data provider on top of the
// Blockfrost REST API
package blockfrost

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/blinklabs-io/tx-anatomy/network"
	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/provider"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Compile-time check
var _ provider.Provider = (*Provider)(nil)

const (
	DefaultTimeout = 10 * time.Second

	projectIdHeader = "project_id"
)

// DefaultBaseURLs maps network names to the hosted API endpoints
var DefaultBaseURLs = map[string]string{
	network.Mainnet.Name: "https://cardano-mainnet.blockfrost.io/api/v0",
	network.Preprod.Name: "https://cardano-preprod.blockfrost.io/api/v0",
	network.Preview.Name: "https://cardano-preview.blockfrost.io/api/v0",
}

// ErrNoProjectId is returned when no project ID is configured for a network
var ErrNoProjectId = errors.New("no project ID configured")

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("blockfrost: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("blockfrost: HTTP %d: %s", e.StatusCode, e.Message)
}

// Provider queries Blockfrost. One project ID is kept per network.
type Provider struct {
	client     *http.Client
	logger     *slog.Logger
	baseURLs   map[string]string
	projectIds map[string]string
}

// ProviderOptionFunc is a type that represents functions that modify the
// Provider config
type ProviderOptionFunc func(*Provider)

// New returns a provider using the hosted endpoints
func New(opts ...ProviderOptionFunc) *Provider {
	p := &Provider{
		client:     &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
		baseURLs:   make(map[string]string),
		projectIds: make(map[string]string),
	}
	for k, v := range DefaultBaseURLs {
		p.baseURLs[k] = v
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithProjectId sets the project ID used for a network
func WithProjectId(networkName string, projectId string) ProviderOptionFunc {
	return func(p *Provider) {
		if projectId != "" {
			p.projectIds[canonicalName(networkName)] = projectId
		}
	}
}

// WithBaseURL overrides the API endpoint for a network
func WithBaseURL(networkName string, baseURL string) ProviderOptionFunc {
	return func(p *Provider) {
		p.baseURLs[canonicalName(networkName)] = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient specifies the HTTP client to use
func WithHTTPClient(client *http.Client) ProviderOptionFunc {
	return func(p *Provider) {
		if client != nil {
			p.client = client
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ProviderOptionFunc {
	return func(p *Provider) {
		p.client.Timeout = timeout
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ProviderOptionFunc {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func canonicalName(name string) string {
	if n, ok := network.Lookup(name); ok {
		return n.Name
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func (p *Provider) TransactionOutputs(
	ctx context.Context,
	txHash string,
	networkName string,
) ([]provider.IndexedOutput, error) {
	var resp txUtxosResponse
	if err := p.get(ctx, networkName, "/txs/"+txHash+"/utxos", &resp); err != nil {
		return nil, fmt.Errorf("transaction %s outputs: %w", txHash, err)
	}
	ret := make([]provider.IndexedOutput, 0, len(resp.Outputs))
	for _, out := range resp.Outputs {
		txOut, err := out.toOutput()
		if err != nil {
			return nil, fmt.Errorf(
				"transaction %s output %d: %w",
				txHash,
				out.OutputIndex,
				err,
			)
		}
		if out.ReferenceScriptHash != nil {
			script, err := p.referenceScript(ctx, networkName, *out.ReferenceScriptHash)
			if err != nil {
				return nil, fmt.Errorf(
					"transaction %s output %d: %w",
					txHash,
					out.OutputIndex,
					err,
				)
			}
			txOut.ScriptRef = script
		}
		ret = append(
			ret,
			provider.IndexedOutput{Index: out.OutputIndex, Output: txOut},
		)
	}
	return ret, nil
}

// referenceScript fetches a script by hash. Plutus scripts come as CBOR,
// native scripts only as JSON.
func (p *Provider) referenceScript(
	ctx context.Context,
	networkName string,
	hash string,
) (*txview.Script, error) {
	var info scriptResponse
	if err := p.get(ctx, networkName, "/scripts/"+hash, &info); err != nil {
		return nil, fmt.Errorf("reference script %s: %w", hash, err)
	}
	lang, err := info.language()
	if err != nil {
		return nil, fmt.Errorf("reference script %s: %w", hash, err)
	}
	var script *txview.Script
	if lang == txview.ScriptNative {
		var resp scriptJSONResponse
		if err := p.get(ctx, networkName, "/scripts/"+hash+"/json", &resp); err != nil {
			return nil, fmt.Errorf("reference script %s: %w", hash, err)
		}
		script, err = resp.toScript()
	} else {
		var resp scriptCborResponse
		if err := p.get(ctx, networkName, "/scripts/"+hash+"/cbor", &resp); err != nil {
			return nil, fmt.Errorf("reference script %s: %w", hash, err)
		}
		script, err = resp.toScript(lang, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("reference script %s: %w", hash, err)
	}
	if computed := hex.EncodeToString(script.Hash()); computed != hash {
		return nil, fmt.Errorf("reference script %s: content hashes to %s", hash, computed)
	}
	return script, nil
}

func (p *Provider) LatestProtocolParameters(
	ctx context.Context,
	networkName string,
) (pparams.ProtocolParams, error) {
	var resp epochParamsResponse
	if err := p.get(ctx, networkName, "/epochs/latest/parameters", &resp); err != nil {
		return pparams.ProtocolParams{}, fmt.Errorf("latest protocol parameters: %w", err)
	}
	return resp.toProtocolParams()
}

func (p *Provider) get(ctx context.Context, networkName string, path string, dest any) error {
	name := canonicalName(networkName)
	baseURL, ok := p.baseURLs[name]
	if !ok {
		return fmt.Errorf("network %q: %w", networkName, provider.ErrNotImplemented)
	}
	projectId, ok := p.projectIds[name]
	if !ok {
		return fmt.Errorf("network %q: %w", networkName, ErrNoProjectId)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set(projectIdHeader, projectId)
	req.Header.Set("Accept", "application/json")
	p.logger.Debug(
		"blockfrost request",
		"component", "provider",
		"network", name,
		"path", path,
	)
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Message = errResp.Message
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", provider.ErrNotFound, apiErr)
		}
		return apiErr
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type errorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}
