package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	seaplanesBody = `{"data":{"seaplanes":[
		{"name":"Skyhawk","fuel":600,"crates":0,"status":{"value":"docked"},
		 "location":{"name":"Nassau","latitude":25.06,"longitude":-77.34},
		 "model":{"name":"Otter","crate_capacity":10,"fuel_capacity_L":1200}},
		{"name":"Albatross","fuel":100,"status":{"value":"flying"},"location":null,
		 "model":{"name":"Beaver","crate_capacity":20,"fuel_capacity_L":1000}}]}}`
	portsBody = `{"data":{"ports":[
		{"name":"Nassau","latitude":25.06,"longitude":-77.34,"island":{"name":"New Providence"}},
		{"name":"Freeport","latitude":26.53,"longitude":-78.69,"island":null}]}}`
	ordersBody = `{"data":{"ordersByStatus":[
		{"id":"o-1","crate_quantity":4,"client":{"name":"Reef Lab","locker":null},"warehouse":null},
		{"id":"o-2","crate_quantity":0,"client":null,"warehouse":null}]}}`
)

func backend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(req.Query, "ordersByStatus"):
			_, _ = w.Write([]byte(ordersBody))
		case strings.Contains(req.Query, "seaplanes"):
			_, _ = w.Write([]byte(seaplanesBody))
		case strings.Contains(req.Query, "ports"):
			_, _ = w.Write([]byte(portsBody))
		default:
			_, _ = w.Write([]byte(`{"errors":[{"message":"unexpected query"}]}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func writeConfig(t *testing.T, endpoint string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "api:\n  endpoint: " + endpoint + "\njournal:\n  backend: none\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestClustersCommand_CSV(t *testing.T) {
	cfg := writeConfig(t, backend(t))
	out, err := execute(t, "clusters", "--config", cfg, "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "latitude,longitude,indicator,size,members", lines[0])
	assert.Equal(t, "25.06,-77.34,default,2,vehicle:Skyhawk;port:Nassau", lines[1])
	assert.Equal(t, "26.53,-78.69,port,1,port:Freeport", lines[2])
}

func TestClustersCommand_BadFormat(t *testing.T) {
	_, err := execute(t, "clusters", "--format", "xml")
	assert.Error(t, err)
	clustersFormat = "json"
}

func TestFleetCommand(t *testing.T) {
	cfg := writeConfig(t, backend(t))
	out, err := execute(t, "fleet", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Skyhawk")
	assert.Contains(t, out, "In flight")
	assert.Contains(t, out, "2 seaplanes: 1 docked, 1 flying, 0 in maintenance")
	assert.Contains(t, out, "low fuel: Albatross")
}

func TestPlanCommand(t *testing.T) {
	t.Cleanup(func() { planOrders, planVehicle, planSubmit = nil, "", false })
	cfg := writeConfig(t, backend(t))

	out, err := execute(t, "plan", "--config", cfg, "--order", "o-1", "--vehicle", "Skyhawk")
	require.NoError(t, err)
	assert.Contains(t, out, `"state": "validated"`)
	assert.Contains(t, out, `"outcome": "ok"`)

	planOrders, planVehicle = nil, ""
	_, err = execute(t, "plan", "--config", cfg, "--order", "o-1", "--vehicle", "Albatross")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "choose vehicle Albatross")

	planOrders, planVehicle = nil, ""
	_, err = execute(t, "plan", "--config", cfg, "--order", "o-2")
	require.Error(t, err, "zero-crate orders are not loaded")
	assert.Contains(t, err.Error(), "select order o-2")
}
