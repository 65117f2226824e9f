package mainboilerplate

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// DiagnosticsConfig configures pull-based application metrics.
type DiagnosticsConfig struct {
	Port string `long:"port" env:"PORT" description:"Address at which to serve /debug/metrics, eg :9090. Metrics are not served if empty"`
}

// InitDiagnostics serves Prometheus metrics at /debug/metrics, if a port is
// configured.
func InitDiagnostics(cfg DiagnosticsConfig) {
	if cfg.Port == "" {
		return
	}
	var mux = http.NewServeMux()
	mux.Handle("/debug/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(cfg.Port, mux); err != nil {
			log.WithFields(log.Fields{"err": err, "port": cfg.Port}).Warn("diagnostics server stopped")
		}
	}()
}

// Must panics if |err| is non-nil, supplying |msg| and |extra| as
// formatter and fields of the generated panic.
func Must(err error, msg string, extra ...interface{}) {
	if err == nil {
		return
	}
	var f = log.Fields{"err": err}
	for i := 0; i+1 < len(extra); i += 2 {
		f[extra[i].(string)] = extra[i+1]
	}
	log.WithFields(f).Panic(msg)
}
