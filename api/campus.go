package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aiktc/portal/internal/campus"
	"github.com/aiktc/portal/pkg/models"
	"github.com/gorilla/mux"
)

// CampusHandler exposes the domain mutations. Every operation takes its actor
// from the JWT context; the service layer decides whether the actor may act.
type CampusHandler struct {
	svc *campus.Service
}

func NewCampusHandler(svc *campus.Service) *CampusHandler {
	return &CampusHandler{svc: svc}
}

type createCourseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Department  string `json:"department"`
}

func (h *CampusHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	c, err := h.svc.CreateCourse(r.Context(), actorID(r), campus.CourseInput{
		Name:        req.Name,
		Description: req.Description,
		Department:  models.Department(req.Department),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, c, http.StatusCreated)
}

func (h *CampusHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["course_id"]
	if courseID == "" {
		http.Error(w, "course_id required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Enroll(r.Context(), actorID(r), courseID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createAssignmentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     int64  `json:"due_date"`
}

func (h *CampusHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["course_id"]
	var req createAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title required", http.StatusBadRequest)
		return
	}

	a, err := h.svc.CreateAssignment(r.Context(), actorID(r), courseID, campus.AssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, a, http.StatusCreated)
}

type createAnnouncementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

func (h *CampusHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["course_id"]
	var req createAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title required", http.StatusBadRequest)
		return
	}

	a, err := h.svc.CreateAnnouncement(r.Context(), actorID(r), courseID, campus.AnnouncementInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, a, http.StatusCreated)
}

// UploadMaterial accepts a multipart form with a "file" part and an optional
// "title" field.
func (h *CampusHandler) UploadMaterial(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["course_id"]

	const maxUpload = 32 << 20
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file part required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUpload))
	if err != nil {
		http.Error(w, "read file failed", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	m, err := h.svc.UploadMaterial(r.Context(), actorID(r), courseID, title, header.Filename, data)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, m, http.StatusCreated)
}

type markAttendanceRequest struct {
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

func (h *CampusHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["course_id"]
	var req markAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.StudentID == "" || req.Date == "" {
		http.Error(w, "student_id and date required", http.StatusBadRequest)
		return
	}

	a, err := h.svc.MarkAttendance(r.Context(), actorID(r), courseID, req.StudentID, req.Date, models.AttendanceStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, a, http.StatusCreated)
}

func (h *CampusHandler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["course_id"]
	var req markAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.StudentID == "" || req.Date == "" {
		http.Error(w, "student_id and date required", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateAttendance(r.Context(), actorID(r), courseID, req.StudentID, req.Date, models.AttendanceStatus(req.Status)); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type submitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func (h *CampusHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["course_id"]
	var req submitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	f, err := h.svc.SubmitFeedback(r.Context(), actorID(r), courseID, req.Rating, req.Comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, f, http.StatusCreated)
}

// DownloadMaterial streams the stored blob for a material key. The key is
// passed as the remainder of the path: /materials/{course_id}/{file}.
func (h *CampusHandler) DownloadMaterial(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := vars["course_id"] + "/" + vars["file"]

	data, err := h.svc.MaterialContent(r.Context(), key)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("write material response", "err", err)
	}
}
