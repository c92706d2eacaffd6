package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/roach88/shiftgrid/internal/config"
	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/querysql"
	"github.com/roach88/shiftgrid/internal/record"
	"github.com/roach88/shiftgrid/internal/store"
)

// fieldFilterPrefix introduces per-field filter parameters: f.site=north.
const fieldFilterPrefix = "f."

// PageResponse is the body of GET /{dataset}.
type PageResponse struct {
	Dataset    string              `json:"dataset"`
	SnapshotID string              `json:"snapshot_id"`
	Columns    []string            `json:"columns"`
	Sort       *grid.SortState     `json:"sort,omitempty"`
	Filters    grid.FilterState    `json:"filters"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	LastPage   int                 `json:"last_page"`
	Total      int                 `json:"total"`
	Rows       []record.Record     `json:"rows"`
	Display    []map[string]string `json:"display"`
}

// ColumnsResponse is the body of GET /{dataset}/columns.
type ColumnsResponse struct {
	Dataset string                `json:"dataset"`
	IDField string                `json:"id_field"`
	Columns []config.ColumnConfig `json:"columns"`
	Filters []config.FilterConfig `json:"filters,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// badRequest marks errors caused by the request's parameters.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return &badRequest{msg: fmt.Sprintf(format, args...)}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	dataset := mux.Vars(r)["dataset"]

	_, table, err := s.table(r.Context(), dataset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ColumnsResponse{
		Dataset: dataset,
		IDField: table.IDFieldOrDefault(),
		Columns: table.Columns,
		Filters: table.Filters,
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dataset := mux.Vars(r)["dataset"]

	info, table, err := s.table(ctx, dataset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	view, err := table.NewView(nil)
	if err != nil {
		s.logger.Error("build view", "dataset", dataset, "error", err)
		writeError(w, http.StatusInternalServerError, "invalid table definition")
		return
	}
	if table.PageSize <= 0 {
		if err := view.SetPageSize(s.defaultPageSize); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if err := applyParams(view, r.URL.Query()); err != nil {
		var br *badRequest
		if errors.As(err, &br) {
			writeError(w, http.StatusBadRequest, br.msg)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	q := view.Query()
	page, err := s.store.QueryPage(ctx, querysql.FromQuery(dataset, q))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	visible := view.Columns().Visible()
	columns := make([]string, len(visible))
	for i, c := range visible {
		columns[i] = c.Key
	}
	display := make([]map[string]string, len(page.Records))
	for i, rec := range page.Records {
		cells := make(map[string]string, len(visible))
		for _, c := range visible {
			cells[c.Key] = c.Display(rec)
		}
		display[i] = cells
	}

	writeJSON(w, http.StatusOK, PageResponse{
		Dataset:    dataset,
		SnapshotID: info.SnapshotID,
		Columns:    columns,
		Sort:       q.Sort,
		Filters:    q.Filters,
		Page:       page.Page,
		PageSize:   page.PageSize,
		LastPage:   page.LastPage,
		Total:      page.Total,
		Rows:       page.Records,
		Display:    display,
	})
}

// table resolves the dataset's snapshot and table definition. Datasets with
// no definition get one inferred from their stored records.
func (s *Server) table(ctx context.Context, dataset string) (store.SnapshotInfo, *config.TableConfig, error) {
	info, err := s.store.Snapshot(ctx, dataset)
	if err != nil {
		return store.SnapshotInfo{}, nil, err
	}
	if t, ok := s.tables.Table(dataset); ok {
		return info, t, nil
	}

	records, err := s.store.LoadRecords(ctx, dataset)
	if err != nil {
		return store.SnapshotInfo{}, nil, err
	}
	t := config.Infer(dataset, info.IDField, records)
	return info, &t, nil
}

// applyParams applies q, f.<field>, sort, dir, page and page_size to view.
func applyParams(view *grid.View, params url.Values) error {
	for key, values := range params {
		if field, ok := strings.CutPrefix(key, fieldFilterPrefix); ok {
			if field == "" {
				return badRequestf("empty field filter name")
			}
			if _, err := querysql.FieldPath(field); err != nil {
				return badRequestf("%v", err)
			}
			view.SetFieldFilter(field, values[0])
		}
	}
	view.SetGlobalFilter(params.Get("q"))

	if key := params.Get("sort"); key != "" {
		dir, err := grid.ParseDirection(params.Get("dir"))
		if err != nil {
			return badRequestf("%v", err)
		}
		c, ok := view.Columns().Column(key)
		if !ok {
			return badRequestf("unknown sort column %q", key)
		}
		if !c.Sortable {
			return badRequestf("column %q is not sortable", key)
		}
		view.SetSort(&grid.SortState{Key: key, Direction: dir})
	}

	if raw := params.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 || size > MaxPageSize {
			return badRequestf("page_size must be an integer between 1 and %d", MaxPageSize)
		}
		if err := view.SetPageSize(size); err != nil {
			return err
		}
	}

	if raw := params.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return badRequestf("page must be a positive integer")
		}
		view.SetPage(page)
	}
	return nil
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDatasetNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, querysql.ErrInvalidField):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("store read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
