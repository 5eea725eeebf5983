package domain

import "time"

// Role distingue entre tutores y padres.
type Role string

const (
	RoleTutor  Role = "tutor"
	RoleParent Role = "parent"
)

// Valid indica si el rol es uno de los soportados por el backend.
func (r Role) Valid() bool {
	return r == RoleTutor || r == RoleParent
}

type ImageData struct {
	Data        string `json:"data"`
	ContentType string `json:"contentType"`
}

type Certificate struct {
	ID          string `json:"_id,omitempty"`
	CertName    string `json:"certName"`
	SchoolName  string `json:"schoolName"`
	Year        string `json:"year"`
	Data        string `json:"data,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

type WorkExperience struct {
	ID          string `json:"_id,omitempty"`
	SchoolName  string `json:"schoolName"`
	Role        string `json:"role"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

type Child struct {
	ID        string     `json:"_id,omitempty"`
	Name      string     `json:"name"`
	Age       int        `json:"age"`
	Grade     string     `json:"grade"`
	School    string     `json:"school"`
	Subjects  []string   `json:"subjects"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ParentReview es una reseña escrita por un padre, tal como la ve su propio perfil.
type ParentReview struct {
	ID      string `json:"_id"`
	Parent  string `json:"parent"`
	Rating  int    `json:"rating"`
	Date    string `json:"date"`
	Comment string `json:"comment"`
}

// Identity es el perfil del usuario autenticado que mantiene el Session Store.
type Identity struct {
	ID              string           `json:"_id"`
	FullName        string           `json:"fullName"`
	Email           string           `json:"email"`
	Role            Role             `json:"role"`
	Phone           string           `json:"phone,omitempty"`
	Location        string           `json:"location,omitempty"`
	Bio             string           `json:"bio,omitempty"`
	About           string           `json:"about,omitempty"`
	Subjects        []string         `json:"subjects"`
	ProfileImage    *ImageData       `json:"profileImage,omitempty"`
	Certificates    []Certificate    `json:"certificates,omitempty"`
	WorkExperiences []WorkExperience `json:"workExperiences,omitempty"`
	Children        []Child          `json:"children,omitempty"`
	AvailableDays   []string         `json:"availableDays,omitempty"`
	ParentReviews   []ParentReview   `json:"parentReviews,omitempty"`
	CreatedAt       string           `json:"createdAt,omitempty"`
	UpdatedAt       string           `json:"updatedAt,omitempty"`
}

// IsParent indica si la identidad pertenece a un padre.
func (i *Identity) IsParent() bool {
	return i != nil && i.Role == RoleParent
}

// IsTutor indica si la identidad pertenece a un tutor.
func (i *Identity) IsTutor() bool {
	return i != nil && i.Role == RoleTutor
}

// Clone devuelve una copia profunda de los slices para que el llamador no comparta estado.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	out := *i
	out.Subjects = append([]string(nil), i.Subjects...)
	out.AvailableDays = append([]string(nil), i.AvailableDays...)
	out.Certificates = append([]Certificate(nil), i.Certificates...)
	out.WorkExperiences = append([]WorkExperience(nil), i.WorkExperiences...)
	out.ParentReviews = append([]ParentReview(nil), i.ParentReviews...)
	if i.Children != nil {
		out.Children = make([]Child, len(i.Children))
		for idx, c := range i.Children {
			c.Subjects = append([]string(nil), c.Subjects...)
			out.Children[idx] = c
		}
	}
	if i.ProfileImage != nil {
		img := *i.ProfileImage
		out.ProfileImage = &img
	}
	return &out
}
