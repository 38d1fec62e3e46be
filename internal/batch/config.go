package batch

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultTopDocuments = 10
	DefaultTopRecords   = 20
	DefaultTimeout      = 2 * time.Minute
)

type Config struct {
	Workers      int           `mapstructure:"workers" json:"workers" validate:"gte=1,lte=256"`
	Timeout      time.Duration `mapstructure:"timeout" json:"timeout" validate:"gte=0"`
	TopDocuments int           `mapstructure:"top-documents" json:"top_documents" validate:"gte=1"`
	TopRecords   int           `mapstructure:"top-records" json:"top_records" validate:"gte=1"`
}

func DefaultConfig() Config {
	return Config{
		Workers:      min(runtime.NumCPU(), 256),
		Timeout:      DefaultTimeout,
		TopDocuments: DefaultTopDocuments,
		TopRecords:   DefaultTopRecords,
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate batch config: %w", err)
	}
	return nil
}
