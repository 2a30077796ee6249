package server

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/playwhe/internal/database"
)

// SystemHandlers serves system health and resource usage information.
type SystemHandlers struct {
	log       zerolog.Logger
	dataDir   string
	drawsDB   *database.DB
	cacheDB   *database.DB
	startTime time.Time
}

// NewSystemHandlers creates the system handlers
func NewSystemHandlers(log zerolog.Logger, dataDir string, drawsDB, cacheDB *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		dataDir:   dataDir,
		drawsDB:   drawsDB,
		cacheDB:   cacheDB,
		startTime: time.Now(),
	}
}

// HandleSystemHealth handles GET /api/system/health
func (h *SystemHandlers) HandleSystemHealth(w http.ResponseWriter, r *http.Request) {
	cpuUsage, ramUsage := h.getSystemStats()

	databases := map[string]interface{}{}
	for _, db := range []*database.DB{h.drawsDB, h.cacheDB} {
		if db == nil {
			continue
		}
		status := "ok"
		if err := db.Conn().Ping(); err != nil {
			status = "unreachable"
		}
		databases[db.Name()] = map[string]interface{}{
			"status":  status,
			"size_mb": fileSizeMB(db.Path()),
		}
	}

	response := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"cpu_percent":    cpuUsage,
		"ram_percent":    ramUsage,
		"goroutines":     runtime.NumGoroutine(),
		"go_version":     runtime.Version(),
		"data_dir":       h.dataDir,
		"databases":      databases,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system health response")
	}
}

// getSystemStats calculates CPU and RAM usage percentages. A 100ms CPU
// sampling interval keeps the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func fileSizeMB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / 1024 / 1024
}
