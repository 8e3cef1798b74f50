package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		NotesDB struct {
			DSN string `json:"dsn"`
		} `json:"notes_db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress        string   `json:"http_address"`
		RequestTimeout     Duration `json:"request_timeout"`
		RateLimitPerSecond float64  `json:"rate_limit_per_second"`
	} `json:"server,omitempty"`

	Relayer struct {
		RPCURL      string   `json:"rpc_url"`
		Keypair     string   `json:"keypair"`
		FeeAccount  string   `json:"fee_account"`
		FeeRate     float64  `json:"fee_rate"`
		MinBalance  uint64   `json:"min_balance"`
		CallTimeout Duration `json:"call_timeout"`
		BaseDelay   Duration `json:"base_delay"`
		Jitter      Duration `json:"jitter"`
	} `json:"relayer,omitempty"`

	Scheduler struct {
		MinBatchSize int      `json:"min_batch_size"`
		MaxQueueAge  Duration `json:"max_queue_age"`
	} `json:"scheduler,omitempty"`

	Workers struct {
		TickInterval Duration `json:"tick_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			NotesDB: NotesDB{
				DSN: jsonCfg.Storage.NotesDB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:        jsonCfg.Server.HTTPAddress,
			RequestTimeout:     time.Duration(jsonCfg.Server.RequestTimeout),
			RateLimitPerSecond: jsonCfg.Server.RateLimitPerSecond,
		},
		Relayer: Relayer{
			RPCURL:      jsonCfg.Relayer.RPCURL,
			Keypair:     jsonCfg.Relayer.Keypair,
			FeeAccount:  jsonCfg.Relayer.FeeAccount,
			FeeRate:     jsonCfg.Relayer.FeeRate,
			MinBalance:  jsonCfg.Relayer.MinBalance,
			CallTimeout: time.Duration(jsonCfg.Relayer.CallTimeout),
			BaseDelay:   time.Duration(jsonCfg.Relayer.BaseDelay),
			Jitter:      time.Duration(jsonCfg.Relayer.Jitter),
		},
		Scheduler: Scheduler{
			MinBatchSize: jsonCfg.Scheduler.MinBatchSize,
			MaxQueueAge:  time.Duration(jsonCfg.Scheduler.MaxQueueAge),
		},
		Workers: Workers{
			TickInterval: time.Duration(jsonCfg.Workers.TickInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
