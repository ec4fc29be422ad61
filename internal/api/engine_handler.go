package api

import (
	"net/http"

	"flightwatch/internal/engine"
)

// RunEngineHandler handles POST /internal/engine/run: one full polling
// pass, triggered by an external scheduler or manual call.
func RunEngineHandler(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := eng.RunPass(r.Context())
		if err != nil {
			if err == engine.ErrPassInProgress {
				// Overlapping trigger: the running pass covers this request
				respondWithSuccess(w, http.StatusAccepted, &map[string]string{
					"state": "pass already in progress",
				})
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, summary)
	}
}
