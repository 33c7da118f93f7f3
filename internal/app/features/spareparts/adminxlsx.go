// internal/app/features/spareparts/adminxlsx.go
package spareparts

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/authz"
	"github.com/plantfloor/sparetrack/internal/app/system/timeouts"
	"github.com/plantfloor/sparetrack/internal/app/system/viewdata"
	"github.com/plantfloor/sparetrack/internal/app/system/views"
	"github.com/plantfloor/sparetrack/internal/app/system/xlsxutil"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// maxImportSize caps uploaded workbooks at 10 MiB.
const maxImportSize = 10 << 20

// ServeExport streams the current plant view as an .xlsx workbook.
func (h *AdminHandler) ServeExport(w http.ResponseWriter, r *http.Request) {
	plant := r.URL.Query().Get("plant")
	if !models.ValidPlant(plant) {
		plant = authz.UserPlant(r)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	snapshot, err := h.store().Snapshot(ctx)
	if err != nil {
		h.ErrLog.Handle(w, r, err, "export spare parts")
		return
	}
	scoped := views.Derive(snapshot, views.Criteria{
		Plant: plant, Tab: views.TabAll, ShowHidden: true,
	})

	f, err := xlsxutil.BuildWorkbook(scoped)
	if err != nil {
		h.ErrLog.Handle(w, r, err, "export spare parts")
		return
	}
	h.sendWorkbook(w, r, f, "spareparts-"+plant+"-"+time.Now().Format("20060102")+".xlsx")
}

// ServeTemplate sends an empty workbook with the expected header row.
func (h *AdminHandler) ServeTemplate(w http.ResponseWriter, r *http.Request) {
	f, err := xlsxutil.BuildTemplate()
	if err != nil {
		h.ErrLog.Handle(w, r, err, "import template")
		return
	}
	h.sendWorkbook(w, r, f, "spareparts-template.xlsx")
}

func (h *AdminHandler) sendWorkbook(w http.ResponseWriter, r *http.Request, f *excelize.File, filename string) {
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(w); err != nil {
		// Headers are already gone; just log.
		h.Log.Error("workbook write failed", zap.Error(err))
	}
}

type importVM struct {
	viewdata.BaseVM
	Plant    string
	Inserted int
	BatchID  string
	Rejects  []xlsxutil.RowError
	Error    string
	Done     bool
}

// ServeImport renders the upload form.
func (h *AdminHandler) ServeImport(w http.ResponseWriter, r *http.Request) {
	plant := r.URL.Query().Get("plant")
	if !models.ValidPlant(plant) {
		plant = authz.UserPlant(r)
	}
	templates.Render(w, r, "spareparts_import", importVM{
		BaseVM: viewdata.NewBaseVM(r, "Import Spare Parts", "/spareparts"),
		Plant:  plant,
	})
}

// HandleImport parses an uploaded workbook and bulk-inserts the valid
// rows. Rows that fail parsing are reported back with their row numbers;
// a workbook with any bad row that reaches the store is rejected whole.
func (h *AdminHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "upload too large or malformed", http.StatusBadRequest)
		return
	}
	plant := r.PostFormValue("plant")
	if !models.ValidPlant(plant) {
		plant = authz.UserPlant(r)
	}

	file, _, err := r.FormFile("workbook")
	if err != nil {
		h.renderImport(w, r, importVM{Plant: plant, Error: "Choose an .xlsx file to upload."})
		return
	}
	defer file.Close()

	parts, rejects, err := xlsxutil.ParseWorkbook(file, plant)
	if err != nil {
		h.renderImport(w, r, importVM{Plant: plant, Error: "The file could not be read as an .xlsx workbook."})
		return
	}
	if len(rejects) > 0 {
		h.renderImport(w, r, importVM{Plant: plant, Rejects: rejects})
		return
	}
	if len(parts) == 0 {
		h.renderImport(w, r, importVM{Plant: plant, Error: "The workbook has no data rows."})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	batchID, inserted, err := h.store().BatchCreate(ctx, parts)
	if err != nil {
		h.ErrLog.Handle(w, r, err, "import spare parts")
		return
	}

	h.Log.Info("workbook imported",
		zap.String("plant", plant),
		zap.String("batch_id", batchID),
		zap.Int("inserted", inserted))
	h.renderImport(w, r, importVM{
		Plant:    plant,
		Inserted: inserted,
		BatchID:  batchID,
		Done:     true,
	})
}

func (h *AdminHandler) renderImport(w http.ResponseWriter, r *http.Request, vm importVM) {
	vm.BaseVM = viewdata.NewBaseVM(r, "Import Spare Parts", "/spareparts")
	if vm.Error != "" || len(vm.Rejects) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	templates.Render(w, r, "spareparts_import", vm)
}
