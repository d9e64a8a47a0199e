package http

import (
	"net/http"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"
	"github.com/veldtlabs/veldt/spatial"
)

// HandleDebugInfo serves a snapshot of the spatial index shape and
// occupancy.
func HandleDebugInfo(idx *spatial.Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := json.Marshal(idx.GetDebugInfo())
		if err != nil {
			logs.Error(errors.New("encoding debug info failed").Wrap(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}
