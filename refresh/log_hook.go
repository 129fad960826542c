package refresh

import (
	"errors"
	"time"

	"github.com/apex/log"

	"github.com/krisalay/sheets-cache/types"
)

// LogHook writes one diagnostic line per refresh attempt.
type LogHook struct {
	// Source names the sheet in log fields, e.g. "<spreadsheet id>/<worksheet>".
	Source string
}

func (h LogHook) OnRefresh(ent *types.CacheEntry, err error, took time.Duration) {
	ctx := log.WithFields(log.Fields{
		"source": h.Source,
		"took":   took.Round(time.Millisecond).String(),
	})

	if err == nil {
		ctx.WithField("records", len(ent.Records)).Info("sheet refreshed")
		return
	}

	op := "refresh"
	var rerr *types.RefreshError
	if errors.As(err, &rerr) {
		op = rerr.Op
	}

	ctx = ctx.WithFields(log.Fields{
		"op":   op,
		"kind": types.ErrorKind(err),
	})

	// Configuration errors were already reported loudly at startup.
	if errors.Is(err, types.ErrConfiguration) {
		ctx.WithError(err).Debug("sheet refresh skipped")
		return
	}
	ctx.WithError(err).Warn("sheet refresh failed")
}
