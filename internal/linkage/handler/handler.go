package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"name-linker/internal/config"
	"name-linker/internal/fileio"
	"name-linker/internal/linkage/service"
	"name-linker/internal/middleware"
)

// Link возвращает http.HandlerFunc для r.Post("/link", handler.Link(cfg, logger)).
// Multipart files "source" and "lookup"; the annotated source table comes
// back as CSV. The whole response is buffered so a failed run sends no rows.
func Link(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger
		if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
			log = *l
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		lookupFile, lookupHdr, err := r.FormFile("lookup")
		if err != nil {
			http.Error(w, "missing lookup: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer lookupFile.Close()

		sourceFile, sourceHdr, err := r.FormFile("source")
		if err != nil {
			http.Error(w, "missing source: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer sourceFile.Close()

		lookup, err := fileio.NewReader(lookupFile, lookupHdr.Filename)
		if err != nil {
			http.Error(w, "failed to read lookup: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer lookup.Close()
		source, err := fileio.NewReader(sourceFile, sourceHdr.Filename)
		if err != nil {
			http.Error(w, "failed to read source: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer source.Close()

		settings := settingsFromForm(r, cfg.Linkage)
		p, err := service.NewPipeline(settings, log)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		out, err := fileio.NewCSVWriter(&buf, toBool(r.FormValue("bom"), cfg.WriteBOM))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		st, err := p.Run(lookup, source, out)
		if err == nil {
			out.Flush()
			err = out.Error()
		}
		if err != nil {
			var mce *service.MissingColumnError
			if errors.As(err, &mce) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			log.Warn().Err(err).Msg("link failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="linked.csv"`)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set(middleware.HeaderLinkageRows, strconv.Itoa(st.Rows))
		w.Header().Set(middleware.HeaderLinkageMatched, strconv.Itoa(st.Matched))
		if _, err := w.Write(buf.Bytes()); err != nil {
			log.Error().Err(err).Msg("write csv")
		}
	}
}
