package routes

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"skillswap-server/models"
	"skillswap-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type exportJob struct {
	ID        string `json:"id"`
	Resource  string `json:"resource"`
	Status    string `json:"status"` // pending, processing, done, failed
	Rows      int    `json:"rows"`
	CreatedAt int64  `json:"created_at"`

	csv []byte
}

// AdminExportHandler produces CSV snapshots of users, swaps and skills. Jobs
// run in the background and are polled by id; results live in memory only.
type AdminExportHandler struct {
	db *gorm.DB

	mu   sync.Mutex
	jobs map[string]*exportJob
}

func NewAdminExportHandler(db *gorm.DB) *AdminExportHandler {
	return &AdminExportHandler{db: db, jobs: map[string]*exportJob{}}
}

// POST /admin/export { resource: "users"|"swaps"|"skills" }
func (h *AdminExportHandler) CreateExport(ctx iris.Context) {
	var body struct {
		Resource string `json:"resource"`
	}
	if err := ctx.ReadJSON(&body); err != nil {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "resource required")
		return
	}
	switch body.Resource {
	case "users", "swaps", "skills":
	default:
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "resource must be users, swaps, or skills")
		return
	}

	id := time.Now().Format("20060102150405.000000")
	job := &exportJob{ID: id, Resource: body.Resource, Status: "pending", CreatedAt: time.Now().Unix()}
	h.mu.Lock()
	h.jobs[id] = job
	h.mu.Unlock()

	go h.run(job)

	ctx.JSON(iris.Map{"data": iris.Map{"id": id, "status": job.Status}})
}

// GET /admin/export/:id
func (h *AdminExportHandler) GetExport(ctx iris.Context) {
	job, ok := h.find(ctx)
	if !ok {
		return
	}
	ctx.JSON(iris.Map{"data": job})
}

// GET /admin/export/:id/download — CSV body once the job is done.
func (h *AdminExportHandler) DownloadExport(ctx iris.Context) {
	job, ok := h.find(ctx)
	if !ok {
		return
	}
	if job.Status != "done" {
		utils.JSONError(ctx, http.StatusConflict, "not_ready", "export is not finished")
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.csv", job.Resource, job.ID))
	ctx.ContentType("text/csv")
	ctx.Write(job.csv)
}

// find returns a copy of the job taken under the lock; the background
// goroutine keeps mutating the stored one.
func (h *AdminExportHandler) find(ctx iris.Context) (exportJob, bool) {
	id := ctx.Params().GetString("id")
	h.mu.Lock()
	job, ok := h.jobs[id]
	var snapshot exportJob
	if ok {
		snapshot = *job
	}
	h.mu.Unlock()
	if !ok {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "job not found")
		return exportJob{}, false
	}
	return snapshot, true
}

func (h *AdminExportHandler) run(job *exportJob) {
	h.setStatus(job, "processing", 0, nil)

	var (
		data []byte
		rows int
		err  error
	)
	switch job.Resource {
	case "users":
		data, rows, err = h.exportUsers()
	case "swaps":
		data, rows, err = h.exportSwaps()
	case "skills":
		data, rows, err = h.exportSkills()
	}
	if err != nil {
		log.Printf("export %s (%s) failed: %v", job.ID, job.Resource, err)
		h.setStatus(job, "failed", 0, nil)
		return
	}
	h.setStatus(job, "done", rows, data)
}

func (h *AdminExportHandler) setStatus(job *exportJob, status string, rows int, data []byte) {
	h.mu.Lock()
	job.Status = status
	job.Rows = rows
	job.csv = data
	h.mu.Unlock()
}

func (h *AdminExportHandler) exportUsers() ([]byte, int, error) {
	var users []models.User
	if err := h.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "name", "email", "location", "skills_offered", "skills_wanted", "role", "banned", "created_at"})
	for i := range users {
		u := &users[i]
		w.Write([]string{
			strconv.FormatUint(uint64(u.ID), 10),
			u.Name,
			u.Email,
			u.Location,
			strings.Join(u.SkillsOfferedList(), ";"),
			strings.Join(u.SkillsWantedList(), ";"),
			u.Role,
			strconv.FormatBool(u.IsBanned),
			u.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	return buf.Bytes(), len(users), w.Error()
}

func (h *AdminExportHandler) exportSwaps() ([]byte, int, error) {
	var swaps []models.Swap
	if err := h.db.Order("id ASC").Find(&swaps).Error; err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "requester_id", "recipient_id", "skill_offered", "skill_requested", "status", "created_at"})
	for i := range swaps {
		s := &swaps[i]
		w.Write([]string{
			strconv.FormatUint(uint64(s.ID), 10),
			strconv.FormatUint(uint64(s.RequesterID), 10),
			strconv.FormatUint(uint64(s.RecipientID), 10),
			s.SkillOffered,
			s.SkillRequested,
			s.Status,
			s.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	return buf.Bytes(), len(swaps), w.Error()
}

func (h *AdminExportHandler) exportSkills() ([]byte, int, error) {
	var skills []models.Skill
	if err := h.db.Order("id ASC").Find(&skills).Error; err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "name", "category", "level", "verified", "active", "usage_count", "created_at"})
	for i := range skills {
		s := &skills[i]
		w.Write([]string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.Name,
			s.Category,
			s.Level,
			strconv.FormatBool(s.IsVerified),
			strconv.FormatBool(s.IsActive),
			strconv.Itoa(s.UsageCount),
			s.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	return buf.Bytes(), len(skills), w.Error()
}
