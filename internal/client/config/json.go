package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/relief/internal/flagx"
	"github.com/dmitrijs2005/relief/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	StorageDriver string `json:"storage_driver"`
	StorageDSN    string `json:"storage_dsn"`

	ProbeMode           string         `json:"probe_mode"`
	ProbeURL            string         `json:"probe_url"`
	ProbeTarget         string         `json:"probe_target"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	Offline             *bool          `json:"offline"`

	Language string `json:"language"`
	LogLevel string `json:"log_level"`

	AuthLatency      *timex.Duration `json:"auth_latency"`
	UpdateLatency    *timex.Duration `json:"update_latency"`
	ResetTokenTTL    timex.Duration  `json:"reset_token_ttl"`
	ResetTokenSecret string          `json:"reset_token_secret"`

	EmailJS struct {
		Endpoint   string `json:"endpoint"`
		ServiceID  string `json:"service_id"`
		TemplateID string `json:"template_id"`
		PublicKey  string `json:"public_key"`
		PrivateKey string `json:"private_key"`
	} `json:"emailjs"`

	Gemini struct {
		BaseURL string `json:"base_url"`
		Model   string `json:"model"`
		APIKey  string `json:"api_key"`
	} `json:"gemini"`

	S3 struct {
		Bucket       string `json:"bucket"`
		Region       string `json:"region"`
		BaseEndpoint string `json:"base_endpoint"`
		AccessKey    string `json:"access_key"`
		SecretKey    string `json:"secret_key"`
	} `json:"s3"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with values from the JSON file named by -c/-config
// (or $RELIEF_CONFIG). Fields absent from the file keep their current value.
// Latencies are pointers so an explicit "0s" disables the delay.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.StorageDSN, jc.StorageDSN)
	setString(&cfg.ProbeMode, jc.ProbeMode)
	setString(&cfg.ProbeURL, jc.ProbeURL)
	setString(&cfg.ProbeTarget, jc.ProbeTarget)
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.Offline != nil {
		cfg.Offline = *jc.Offline
	}

	setString(&cfg.Language, jc.Language)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.AuthLatency != nil {
		cfg.AuthLatency = jc.AuthLatency.Duration
	}
	if jc.UpdateLatency != nil {
		cfg.UpdateLatency = jc.UpdateLatency.Duration
	}
	if jc.ResetTokenTTL.Duration > 0 {
		cfg.ResetTokenTTL = jc.ResetTokenTTL.Duration
	}
	setString(&cfg.ResetTokenSecret, jc.ResetTokenSecret)

	setString(&cfg.EmailJSEndpoint, jc.EmailJS.Endpoint)
	setString(&cfg.EmailJSServiceID, jc.EmailJS.ServiceID)
	setString(&cfg.EmailJSTemplateID, jc.EmailJS.TemplateID)
	setString(&cfg.EmailJSPublicKey, jc.EmailJS.PublicKey)
	setString(&cfg.EmailJSPrivateKey, jc.EmailJS.PrivateKey)

	setString(&cfg.GeminiBaseURL, jc.Gemini.BaseURL)
	setString(&cfg.GeminiModel, jc.Gemini.Model)
	setString(&cfg.GeminiAPIKey, jc.Gemini.APIKey)

	setString(&cfg.S3Bucket, jc.S3.Bucket)
	setString(&cfg.S3Region, jc.S3.Region)
	setString(&cfg.S3BaseEndpoint, jc.S3.BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3.AccessKey)
	setString(&cfg.S3SecretKey, jc.S3.SecretKey)

	return nil
}
