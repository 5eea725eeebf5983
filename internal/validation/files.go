package validation

import (
	"fmt"
	"strings"
)

const (
	MaxPictureBytes     = 5 << 20
	MaxCertificateBytes = 10 << 20
)

var certificateTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Picture valida la foto de perfil: una imagen de hasta 5MB.
func Picture(name, contentType string, size int) error {
	fields := map[string]string{}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		fields["profileImage"] = "Invalid file type: please select an image file (JPG, PNG, GIF)"
	} else if size > MaxPictureBytes {
		fields["profileImage"] = "File too large: please select an image smaller than 5MB"
	} else if size == 0 {
		fields["profileImage"] = fmt.Sprintf("%s is empty", name)
	}
	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// CertificateFile valida un adjunto de certificado: PDF o DOCX de hasta 10MB.
func CertificateFile(name, contentType string, size int) error {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch {
	case !certificateTypes[ct]:
		return &Error{Fields: map[string]string{"certificates": fmt.Sprintf("%s is not a supported file type", name)}}
	case size > MaxCertificateBytes:
		return &Error{Fields: map[string]string{"certificates": fmt.Sprintf("%s exceeds the maximum file size of 10MB", name)}}
	case size == 0:
		return &Error{Fields: map[string]string{"certificates": fmt.Sprintf("%s is empty", name)}}
	}
	return nil
}
