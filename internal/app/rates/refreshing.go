package rates

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
)

const refreshBodyLimit = 1 << 20

// Refreshing wraps a Static table and re-fetches it from an HTTP endpoint on
// a cron schedule. The endpoint returns a JSON object mapping currency codes
// to decimal rate strings. A failed refresh keeps the previous table.
type Refreshing struct {
	*Static
	url    string
	client *http.Client
	cron   *cron.Cron
	log    *logger.Logger
}

func NewRefreshing(seed map[string]string, url string, schedule string, log *logger.Logger) (*Refreshing, error) {
	r := &Refreshing{
		Static: NewStatic(seed),
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
		cron:   cron.New(),
		log:    log,
	}
	if _, err := r.cron.AddFunc(schedule, r.refresh); err != nil {
		return nil, fmt.Errorf("invalid rate refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

func (r *Refreshing) Start() {
	r.cron.Start()
}

func (r *Refreshing) Stop() {
	r.cron.Stop()
}

func (r *Refreshing) refresh() {
	resp, err := r.client.Get(r.url)
	if err != nil {
		r.log.Error(err, "rate refresh failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Errorf(nil, "rate refresh got status %d from %s", resp.StatusCode, r.url)
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, refreshBodyLimit))
	if err != nil {
		r.log.Error(err, "rate refresh read failed")
		return
	}

	var table map[string]string
	if err := json.Unmarshal(body, &table); err != nil {
		r.log.Error(err, "rate refresh returned malformed table")
		return
	}
	if len(table) == 0 {
		r.log.Error(nil, "rate refresh returned an empty table, keeping previous rates")
		return
	}

	r.Replace(table)
	r.log.Debugf("rate table refreshed with %d currencies", len(table))
}
