// Package hero fetches hero base stats from the remote stat provider.
package hero

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/cory-johannsen/gearopt/internal/gear"
)

// nonWord collapses punctuation in hero names before slugging.
var nonWord = regexp.MustCompile(`[\W_ ]+`)

// Client talks to the hero database API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the API rooted at baseURL.
//
// Precondition: baseURL is non-empty; timeout > 0.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Heroes returns the names of all known heroes.
func (c *Client) Heroes(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, c.baseURL+"/hero")
	if err != nil {
		return nil, err
	}
	var names []string
	gjson.GetBytes(body, "results").ForEach(func(_, v gjson.Result) bool {
		names = append(names, v.Get("name").String())
		return true
	})
	return names, nil
}

// BaseStats returns the hero's base stats at the reference power level
// (level 60, six-star, fully awakened). Ratio-valued stats come back scaled
// to percentages to match how gear records them.
//
// Postcondition: on success the map contains every stat kind.
func (c *Client) BaseStats(ctx context.Context, name string) (gear.BaseStats, error) {
	slug := strings.Join(strings.Fields(strings.ToLower(nonWord.ReplaceAllString(name, " "))), "-")
	body, err := c.get(ctx, c.baseURL+"/hero/"+slug)
	if err != nil {
		return nil, err
	}

	stats := gjson.GetBytes(body, "results.0.calculatedStatus.lv60SixStarFullyAwakened")
	if !stats.Exists() {
		return nil, fmt.Errorf("hero %q: no stat block in provider response", name)
	}

	return gear.BaseStats{
		gear.StatAttack:        stats.Get("atk").Float(),
		gear.StatDefense:       stats.Get("def").Float(),
		gear.StatHealth:        stats.Get("hp").Float(),
		gear.StatSpeed:         stats.Get("spd").Float(),
		gear.StatCritChance:    stats.Get("chc").Float() * 100,
		gear.StatCritDamage:    stats.Get("chd").Float() * 100,
		gear.StatEffectiveness: stats.Get("eff").Float() * 100,
		gear.StatEffectResist:  stats.Get("efr").Float() * 100,
	}, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return body, nil
}
