package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"haigoo-engine/internal/config"
	"haigoo-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setClassifierKeyReq struct {
	Key string `json:"key"`
}

func (h SecretsHandler) SetClassifierKey(w http.ResponseWriter, r *http.Request) {
	var req setClassifierKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetClassifierKey(cfg.Classifier.KeyringAccount, req.Key); err != nil {
		http.Error(w, "failed to store key: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
