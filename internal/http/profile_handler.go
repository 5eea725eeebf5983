package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutorlink/internal/api"
	"tutorlink/internal/domain"
	"tutorlink/internal/service"
	"tutorlink/internal/validation"
)

const maxUploadBytes = 32 << 20

// ProfileHandler expone las mutaciones del perfil propio.
type ProfileHandler struct {
	logger  *zap.Logger
	profile *service.ProfileService
}

func NewProfileHandler(logger *zap.Logger, profile *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{logger: logger, profile: profile}
}

// UpdateProfile maneja PUT /profile; el formulario depende del rol de la sesión.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	identity, _ := CurrentIdentity(c)
	ctx := c.Request.Context()

	var (
		user *domain.Identity
		err  error
	)
	if identity.IsTutor() {
		var req validation.TutorProfileForm
		if !h.bind(c, &req) {
			return
		}
		user, err = h.profile.UpdateTutorProfile(ctx, req)
	} else {
		var req validation.ParentProfileForm
		if !h.bind(c, &req) {
			return
		}
		user, err = h.profile.UpdateParentProfile(ctx, req)
	}
	h.respond(c, "update profile", user, err)
}

// AddSubject maneja PUT /profile/subjects.
func (h *ProfileHandler) AddSubject(c *gin.Context) {
	var req validation.SubjectForm
	if !h.bind(c, &req) {
		return
	}
	user, err := h.profile.AddSubject(c.Request.Context(), req.Subject)
	h.respond(c, "add subject", user, err)
}

// RemoveSubject maneja DELETE /profile/subjects/:subject.
func (h *ProfileHandler) RemoveSubject(c *gin.Context) {
	user, err := h.profile.RemoveSubject(c.Request.Context(), c.Param("subject"))
	h.respond(c, "remove subject", user, err)
}

// AddCertificate maneja PUT /profile/certificates (multipart).
func (h *ProfileHandler) AddCertificate(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Warn("invalid certificate upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart request"})
		return
	}
	files, err := readFiles(c.Request.MultipartForm.File["certificates"])
	if err != nil {
		h.logger.Warn("read certificate files failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded files"})
		return
	}
	user, err := h.profile.AddCertificate(c.Request.Context(), service.CertificateInput{
		CertName:   c.Request.FormValue("certName"),
		SchoolName: c.Request.FormValue("schoolName"),
		Year:       c.Request.FormValue("year"),
		Files:      files,
	})
	h.respond(c, "add certificate", user, err)
}

// AddExperience maneja PUT /profile/experiences.
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var req validation.ExperienceForm
	if !h.bind(c, &req) {
		return
	}
	user, err := h.profile.AddWorkExperience(c.Request.Context(), req)
	h.respond(c, "add experience", user, err)
}

// DeleteExperience maneja DELETE /profile/experiences/:id.
func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	user, err := h.profile.DeleteWorkExperience(c.Request.Context(), c.Param("id"))
	h.respond(c, "delete experience", user, err)
}

// UpdateAvailableDays maneja PUT /profile/available-days.
func (h *ProfileHandler) UpdateAvailableDays(c *gin.Context) {
	var req validation.AvailableDaysForm
	if !h.bind(c, &req) {
		return
	}
	user, err := h.profile.UpdateAvailableDays(c.Request.Context(), req.Days)
	h.respond(c, "update available days", user, err)
}

// AddChild maneja PUT /profile/children.
func (h *ProfileHandler) AddChild(c *gin.Context) {
	var req validation.ChildForm
	if !h.bind(c, &req) {
		return
	}
	user, err := h.profile.AddChild(c.Request.Context(), req)
	h.respond(c, "add child", user, err)
}

// DeleteChild maneja DELETE /profile/children/:id.
func (h *ProfileHandler) DeleteChild(c *gin.Context) {
	user, err := h.profile.DeleteChild(c.Request.Context(), c.Param("id"))
	h.respond(c, "delete child", user, err)
}

// UpdatePicture maneja PUT /profile/picture (multipart, campo profileImage).
func (h *ProfileHandler) UpdatePicture(c *gin.Context) {
	header, err := c.FormFile("profileImage")
	if err != nil {
		h.logger.Warn("missing profile image", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "profileImage file is required"})
		return
	}
	files, err := readFiles([]*multipart.FileHeader{header})
	if err != nil {
		h.logger.Warn("read profile image failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	user, err := h.profile.UpdatePicture(c.Request.Context(), files[0])
	h.respond(c, "update picture", user, err)
}

func (h *ProfileHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Warn("invalid profile request", zap.String("route", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return false
	}
	return true
}

func (h *ProfileHandler) respond(c *gin.Context, op string, user *domain.Identity, err error) {
	if err != nil {
		writeError(c, h.logger, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func readFiles(headers []*multipart.FileHeader) ([]api.File, error) {
	files := make([]api.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		files = append(files, api.File{Name: fh.Filename, ContentType: ct, Data: data})
	}
	return files, nil
}
