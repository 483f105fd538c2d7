package handler

import (
	"encoding/json"
	"net/http"

	"jobboard/internal/apperr"
	"jobboard/internal/posting"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgListFailed   = "Failed to fetch jobs"
	msgCreateFailed = "Failed to create job"
	msgGetFailed    = "Failed to fetch job"
	msgUpdateFailed = "Failed to update job"
	msgDeleteFailed = "Failed to delete job"
	msgDeleted      = "Job deleted successfully"
)

type JobHandler struct {
	Svc    *posting.Service
	Logger *zap.Logger
}

type jobReq struct {
	JobTitle            string `json:"jobTitle"`
	CompanyName         string `json:"companyName"`
	Location            string `json:"location"`
	JobType             string `json:"jobType"`
	SalaryRange         string `json:"salaryRange"`
	JobDescription      string `json:"jobDescription"`
	Requirements        string `json:"requirements"`
	Responsibilities    string `json:"responsibilities"`
	ApplicationDeadline string `json:"applicationDeadline"`
}

func (req jobReq) toCreate() posting.CreateInput {
	return posting.CreateInput(req)
}

func (req jobReq) toUpdate() posting.UpdateInput {
	return posting.UpdateInput(req)
}

// maxBodyBytes bounds a job payload; the long text fields fit well within it.
const maxBodyBytes = 1 << 20

func decodeJobReq(w http.ResponseWriter, r *http.Request) (jobReq, error) {
	var req jobReq
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return req, apperr.Internal("decoding request body", err)
	}
	return req, nil
}

// GET /jobs?jobTitle=&location=&jobType=&minSalary=&maxSalary=
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.List(r.Context(), posting.FilterFromQuery(r.URL.Query()))
	if err != nil {
		fail(w, r, h.Logger, err, msgListFailed)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJobReq(w, r)
	if err != nil {
		fail(w, r, h.Logger, err, msgCreateFailed)
		return
	}

	j, err := h.Svc.Create(r.Context(), req.toCreate())
	if err != nil {
		fail(w, r, h.Logger, err, msgCreateFailed)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	j, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.Logger, err, msgGetFailed)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJobReq(w, r)
	if err != nil {
		fail(w, r, h.Logger, err, msgUpdateFailed)
		return
	}

	j, err := h.Svc.Update(r.Context(), chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		fail(w, r, h.Logger, err, msgUpdateFailed)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.Logger, err, msgDeleteFailed)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: msgDeleted})
}
