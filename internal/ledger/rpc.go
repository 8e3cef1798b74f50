package ledger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
)

// ClientConfig configures the JSON-RPC ledger client.
type ClientConfig struct {
	RPCURL  string
	Timeout time.Duration
}

type rpcClient struct {
	client  *resty.Client
	keypair *Keypair
	logger  *logger.Logger

	nextID int64
}

// NewRPCClient builds the production [Client] over JSON-RPC. The keypair is
// the relayer identity used to sign every submitted transaction.
func NewRPCClient(cfg ClientConfig, keypair *Keypair, log *logger.Logger) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.RPCURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &rpcClient{client: cli, keypair: keypair, logger: log}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *rpcClient) call(ctx context.Context, method string, params []any, result any) error {
	c.nextID++

	var rpcResp rpcResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(rpcRequest{JSONRPC: "2.0", ID: c.nextID, Method: method, Params: params}).
		SetResult(&rpcResp).
		Post("/")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRPC, method, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s: http status %d", ErrRPC, method, resp.StatusCode())
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%w: %s: %s (code %d)", ErrTransactionRejected, method, rpcResp.Error.Message, rpcResp.Error.Code)
	}

	if err = json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("%w: %s: decoding result: %w", ErrRPC, method, err)
	}

	return nil
}

func (c *rpcClient) Balance(ctx context.Context, account string) (uint64, error) {
	log := logger.FromContext(ctx)

	var result struct {
		Value uint64 `json:"value"`
	}

	if err := c.call(ctx, "getBalance", []any{account}, &result); err != nil {
		log.Err(err).
			Str("func", "rpcClient.Balance").
			Str("account", account).
			Msg("balance query failed")
		return 0, err
	}

	return result.Value, nil
}

type redemptionPayload struct {
	Nullifier        string `json:"nullifier"`
	SecretHash       string `json:"secretHash"`
	Recipient        string `json:"recipient"`
	Amount           uint64 `json:"amount"`
	DonorSignature   string `json:"donorSignature"`
	Relayer          string `json:"relayer"`
	RelayerSignature string `json:"relayerSignature"`
}

func (c *rpcClient) SubmitRedemption(ctx context.Context, instr RedemptionInstruction) (string, error) {
	log := logger.FromContext(ctx)

	payload := redemptionPayload{
		Nullifier:        instr.Nullifier,
		SecretHash:       instr.SecretHash,
		Recipient:        instr.Recipient,
		Amount:           instr.Amount,
		DonorSignature:   instr.DonorSignature,
		Relayer:          c.keypair.PublicKey(),
		RelayerSignature: c.keypair.Sign(redemptionMessage(instr)),
	}

	var signature string
	if err := c.call(ctx, "sendTransaction", []any{payload}, &signature); err != nil {
		log.Err(err).
			Str("func", "rpcClient.SubmitRedemption").
			Str("recipient", instr.Recipient).
			Msg("transaction submission failed")
		return "", err
	}

	log.Debug().
		Str("func", "rpcClient.SubmitRedemption").
		Str("signature", signature).
		Msg("transaction submitted")

	return signature, nil
}

// redemptionMessage is the canonical byte layout the relayer signs:
// nullifier || secretHash || recipient || amount as little-endian uint64.
func redemptionMessage(instr RedemptionInstruction) []byte {
	msg := make([]byte, 0, len(instr.Nullifier)+len(instr.SecretHash)+len(instr.Recipient)+8)
	msg = append(msg, instr.Nullifier...)
	msg = append(msg, instr.SecretHash...)
	msg = append(msg, instr.Recipient...)
	msg = binary.LittleEndian.AppendUint64(msg, instr.Amount)
	return msg
}
