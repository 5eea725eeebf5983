package validation

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegistrationForm struct {
	FullName string `json:"fullName" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=tutor parent"`
}

type ReviewForm struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"trimmed_min=10"`
}

func (ReviewForm) messageFor(field, tag string) (string, bool) {
	switch {
	case field == "rating" && tag == "required":
		return "Rating required", true
	case field == "comment":
		return "Comment too short (at least 10 characters)", true
	}
	return "", false
}

type ContactForm struct {
	FullName string `json:"fullName" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"notblank"`
	Message  string `json:"message" validate:"notblank"`
}

type ChildForm struct {
	Name     string   `json:"name" validate:"notblank"`
	Age      int      `json:"age" validate:"gt=0"`
	Grade    string   `json:"grade" validate:"notblank"`
	School   string   `json:"school" validate:"notblank"`
	Subjects []string `json:"subjects" validate:"omitempty,dive,notblank"`
}

type CertificateForm struct {
	CertName   string   `json:"certName" validate:"notblank"`
	SchoolName string   `json:"schoolName" validate:"notblank"`
	Year       string   `json:"year" validate:"notblank"`
	Files      []string `json:"files" validate:"min=1,dive,notblank"`
}

type AvailableDaysForm struct {
	Days []string `json:"availableDays" validate:"min=1,dive,weekday"`
}

type ExperienceForm struct {
	Role        string `json:"role" validate:"notblank"`
	SchoolName  string `json:"schoolName" validate:"notblank"`
	Period      string `json:"period" validate:"notblank"`
	Description string `json:"description"`
}

type SubjectForm struct {
	Subject string `json:"subject" validate:"notblank,max=80"`
}

type ParentProfileForm struct {
	FullName string `json:"fullName" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	About    string `json:"about"`
}

type TutorProfileForm struct {
	FullName string `json:"fullName" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}
