package health

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	sdkerrors "cosmossdk.io/errors"

	"github.com/albacanete/cosmos-sandbox/log"
)

var ErrHealthCheck = sdkerrors.Register("sandbox-health", 1, "health check ping failed")

type PingType string

const (
	Start   PingType = "start"
	Fail    PingType = "fail"
	Success PingType = "success"
)

const pingTimeout = 10 * time.Second

// HealthCheckClient talks to HealthChecks.io. Without a uuid every ping is a no-op.
type HealthCheckClient struct {
	operation string
	baseUrl   string
	uuid      string

	httpClient *http.Client

	log *log.Logger
}

func NewHealthCheckClient(operation, baseUrl, uuid string, log *log.Logger) *HealthCheckClient {
	return &HealthCheckClient{
		operation: operation,
		baseUrl:   strings.TrimSuffix(baseUrl, "/"),
		uuid:      strings.TrimSpace(uuid),

		httpClient: &http.Client{Timeout: pingTimeout},

		log: log,
	}
}

func (hm *HealthCheckClient) Enabled() bool {
	return hm.uuid != ""
}

func (hm *HealthCheckClient) Start(ctx context.Context, message string) error {
	hm.log.Debug().Str("operation", hm.operation).Msg("🩺 Starting health")
	return hm.ping(ctx, Start, message)
}

func (hm *HealthCheckClient) Success(ctx context.Context, message string) error {
	hm.log.Debug().Str("operation", hm.operation).Msg("❤️  Health success")
	return hm.ping(ctx, Success, message)
}

func (hm *HealthCheckClient) Failed(ctx context.Context, message string) error {
	hm.log.Debug().Str("operation", hm.operation).Msg("❤️‍🩹  Health failed")
	return hm.ping(ctx, Fail, message)
}

func (hm *HealthCheckClient) ping(ctx context.Context, ptype PingType, message string) error {
	if !hm.Enabled() {
		return nil
	}

	url := fmt.Sprintf("%s/%s", hm.baseUrl, hm.uuid)
	if ptype == Fail || ptype == Start {
		url = fmt.Sprintf("%s/%s/%s", hm.baseUrl, hm.uuid, ptype)
	}

	data := map[string]string{
		"operation": hm.operation,
		"msg":       message,
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return ErrHealthCheck.Wrapf("marshal ping: %s", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return ErrHealthCheck.Wrapf("build %s ping: %s", ptype, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hm.httpClient.Do(req)
	if err != nil {
		return ErrHealthCheck.Wrapf("post %s ping: %s", ptype, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		hm.log.Error().Str("operation", hm.operation).Str("ping_type", string(ptype)).Int("response_code", resp.StatusCode).Msg("Health ping rejected")
		return ErrHealthCheck.Wrapf("%s ping returned status %d", ptype, resp.StatusCode)
	}
	return nil
}
