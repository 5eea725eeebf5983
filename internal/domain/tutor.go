package domain

// ReviewAuthor es la proyección del padre que escribió la reseña.
type ReviewAuthor struct {
	FullName string `json:"fullName"`
}

type Review struct {
	ID        string       `json:"_id"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt string       `json:"createdAt"`
	Parent    ReviewAuthor `json:"parent"`
}

// TutorExperience usa fechas de inicio/fin en lugar del periodo libre del perfil propio.
type TutorExperience struct {
	SchoolName  string `json:"schoolName"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Tutor es el listing público que devuelve el backend. Nunca se muta del lado cliente.
type Tutor struct {
	ID              string            `json:"_id"`
	FullName        string            `json:"fullName"`
	Email           string            `json:"email"`
	Role            Role              `json:"role"`
	Phone           string            `json:"phone,omitempty"`
	Location        string            `json:"location,omitempty"`
	Bio             string            `json:"bio,omitempty"`
	Subjects        []string          `json:"subjects"`
	ProfileImage    *ImageData        `json:"profileImage,omitempty"`
	Certificates    []Certificate     `json:"certificates,omitempty"`
	WorkExperiences []TutorExperience `json:"workExperiences,omitempty"`
	AvailableDays   []string          `json:"availableDays,omitempty"`
	Reviews         []Review          `json:"reviews,omitempty"`
	CreatedAt       string            `json:"createdAt,omitempty"`
	UpdatedAt       string            `json:"updatedAt,omitempty"`
}

// AverageRating devuelve el promedio de las reseñas, 0 si no hay ninguna.
func (t Tutor) AverageRating() float64 {
	return AverageRating(t.Reviews)
}

// ReviewCount devuelve la cantidad de reseñas del tutor.
func (t Tutor) ReviewCount() int {
	return len(t.Reviews)
}

// AverageRating calcula el promedio simple de ratings.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
