package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/seaplane/core/cluster"
	"github.com/kilianp07/seaplane/core/planning"
)

// WriteClustersJSON writes the clusters to w as a JSON array.
func WriteClustersJSON(w io.Writer, clusters []cluster.Cluster) error {
	if clusters == nil {
		clusters = []cluster.Cluster{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(clusters)
}

// WriteClustersCSV writes one row per cluster. Members are joined with ";".
func WriteClustersCSV(w io.Writer, clusters []cluster.Cluster) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"latitude", "longitude", "indicator", "size", "members"}); err != nil {
		return err
	}
	for _, c := range clusters {
		names := make([]string, 0, len(c.Members))
		for _, m := range c.Members {
			names = append(names, m.Kind.String()+":"+m.Name)
		}
		rec := []string{
			strconv.FormatFloat(c.Location.Latitude, 'f', -1, 64),
			strconv.FormatFloat(c.Location.Longitude, 'f', -1, 64),
			c.Indicator.String(),
			strconv.Itoa(c.Size()),
			strings.Join(names, ";"),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSnapshotJSON writes the planning snapshot to w.
func WriteSnapshotJSON(w io.Writer, snap planning.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
