// mirror_drift compares the contents of a local mirror against the live
// remote, collection by collection, and reports which slots have drifted.
// Useful after a long offline stretch to see how stale the mirror really is.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/mirror"
)

type check struct {
	Collection string
	Path       string
}

type comparison struct {
	Check          check
	RemoteStatus   int
	Match          bool
	Error          error
	DurationRemote time.Duration
}

func main() {
	var (
		remoteBase string
		apiPrefix  string
		mirrorPath string
		timeout    time.Duration
	)

	flag.StringVar(&remoteBase, "remote-base", "http://localhost:8080", "remote API base URL")
	flag.StringVar(&apiPrefix, "api-prefix", "/api", "remote API path prefix")
	flag.StringVar(&mirrorPath, "mirror", "it-ustoz-mirror.db", "path to the local mirror database")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	store, err := mirror.Open(mirrorPath)
	if err != nil {
		log.Fatalf("failed to open mirror: %v", err)
	}
	defer store.Close()

	checks := []check{
		{Collection: mirror.CollectionUsers, Path: "/users"},
		{Collection: mirror.CollectionCourses, Path: "/courses"},
		{Collection: mirror.CollectionTasks, Path: "/tasks"},
		{Collection: mirror.CollectionResults, Path: "/results"},
		{Collection: mirror.CollectionRequests, Path: "/requests"},
		{Collection: mirror.CollectionMessages, Path: "/messages"},
	}

	client := &http.Client{Timeout: timeout}
	ctx := context.Background()

	var (
		comparisons []comparison
		drifted     int
	)
	for _, c := range checks {
		comp := compareCollection(ctx, client, store, remoteBase, apiPrefix, c)
		if comp.Error != nil || !comp.Match {
			drifted++
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)

	fmt.Printf("Drifted collections: %d of %d\n", drifted, len(checks))
	if drifted > 0 {
		os.Exit(1)
	}
}

func compareCollection(ctx context.Context, client *http.Client, store *mirror.Store,
	base, prefix string, c check) comparison {
	comp := comparison{Check: c}

	var local json.RawMessage
	if err := store.Load(ctx, c.Collection, &local); err != nil {
		comp.Error = fmt.Errorf("load mirror slot: %w", err)
		return comp
	}

	url := strings.TrimRight(base, "/") + prefix + c.Path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		comp.Error = err
		return comp
	}
	start := time.Now()
	resp, err := client.Do(req)
	comp.DurationRemote = time.Since(start)
	if err != nil {
		comp.Error = fmt.Errorf("remote request failed: %w", err)
		return comp
	}
	defer resp.Body.Close()

	comp.RemoteStatus = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		comp.Error = fmt.Errorf("remote returned %d", resp.StatusCode)
		return comp
	}

	remote, err := io.ReadAll(resp.Body)
	if err != nil {
		comp.Error = fmt.Errorf("read remote body: %w", err)
		return comp
	}

	comp.Match = bodiesEqual(local, remote)
	return comp
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []comparison) {
	fmt.Println("Mirror Drift Report")
	fmt.Println("===================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.Match {
			status = "DRIFT"
		}
		fmt.Printf("[%s] %s\n", status, res.Check.Collection)
		fmt.Printf("  Remote status: %d (%s)\n", res.RemoteStatus, res.DurationRemote)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		}
	}
}
