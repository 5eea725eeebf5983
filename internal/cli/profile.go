package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tutorlink/internal/domain"
	"tutorlink/internal/service"
	"tutorlink/internal/validation"
)

func newProfileCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Edit the signed-in profile",
	}
	cmd.AddCommand(
		newProfileUpdateCmd(rt),
		newSubjectsCmd(rt),
		newDaysCmd(rt),
		newExperienceCmd(rt),
		newChildrenCmd(rt),
		newCertificateCmd(rt),
		newPictureCmd(rt),
	)
	return cmd
}

// updated muestra el perfil devuelto por el backend después de una mutación.
func (rt *runtime) updated(cmd *cobra.Command, msg string, user *domain.Identity, err error) error {
	if err != nil {
		return err
	}
	notify(cmd.OutOrStdout(), msg)
	done, err := encode(cmd.OutOrStdout(), rt.output, user)
	if done || err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderIdentity(user))
	return nil
}

func newProfileUpdateCmd(rt *runtime) *cobra.Command {
	var name, email, phone, location, text string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update contact details and bio; omitted flags keep their current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, err := rt.svc.Auth.Current()
			if err != nil {
				return err
			}
			pick := func(flag, value, fallback string) string {
				if cmd.Flags().Changed(flag) {
					return value
				}
				return fallback
			}
			ctx := cmd.Context()
			if current.IsTutor() {
				user, err := rt.svc.Profile.UpdateTutorProfile(ctx, validation.TutorProfileForm{
					FullName: pick("name", name, current.FullName),
					Email:    pick("email", email, current.Email),
					Phone:    pick("phone", phone, current.Phone),
					Location: pick("location", location, current.Location),
					Bio:      pick("bio", text, current.Bio),
				})
				return rt.updated(cmd, "Profile updated", user, err)
			}
			user, err := rt.svc.Profile.UpdateParentProfile(ctx, validation.ParentProfileForm{
				FullName: pick("name", name, current.FullName),
				Email:    pick("email", email, current.Email),
				Phone:    pick("phone", phone, current.Phone),
				Location: pick("location", location, current.Location),
				About:    pick("bio", text, current.About),
			})
			return rt.updated(cmd, "Profile updated", user, err)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "full name")
	f.StringVar(&email, "email", "", "email")
	f.StringVar(&phone, "phone", "", "phone")
	f.StringVar(&location, "location", "", "location")
	f.StringVar(&text, "bio", "", "bio for tutors, about text for parents")
	return cmd
}

func newSubjectsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{Use: "subjects", Short: "Manage the subjects you teach"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <subject>",
			Short: "Add a subject",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				user, err := rt.svc.Profile.AddSubject(cmd.Context(), args[0])
				return rt.updated(cmd, "Subject added", user, err)
			},
		},
		&cobra.Command{
			Use:   "rm <subject>",
			Short: "Remove a subject",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				user, err := rt.svc.Profile.RemoveSubject(cmd.Context(), args[0])
				return rt.updated(cmd, "Subject removed", user, err)
			},
		},
	)
	return cmd
}

func newDaysCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "days <day>...",
		Short: "Replace your available days (Monday through Sunday)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := make([]string, 0, len(args))
			for _, a := range args {
				for _, d := range strings.Split(a, ",") {
					if d = strings.TrimSpace(d); d != "" {
						days = append(days, d)
					}
				}
			}
			user, err := rt.svc.Profile.UpdateAvailableDays(cmd.Context(), days)
			return rt.updated(cmd, "Availability updated", user, err)
		},
	}
}

func newExperienceCmd(rt *runtime) *cobra.Command {
	var form validation.ExperienceForm
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a work experience entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.ask("role", "Role", &form.Role); err != nil {
				return err
			}
			if err := rt.ask("school", "School", &form.SchoolName); err != nil {
				return err
			}
			if err := rt.ask("period", "Period (e.g. 2019-2022)", &form.Period); err != nil {
				return err
			}
			user, err := rt.svc.Profile.AddWorkExperience(cmd.Context(), form)
			return rt.updated(cmd, "Experience added", user, err)
		},
	}
	add.Flags().StringVar(&form.Role, "role", "", "position held")
	add.Flags().StringVar(&form.SchoolName, "school", "", "school or institution")
	add.Flags().StringVar(&form.Period, "period", "", "time period")
	add.Flags().StringVar(&form.Description, "description", "", "optional description")

	cmd := &cobra.Command{Use: "experience", Short: "Manage work experience"}
	cmd.AddCommand(add, &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a work experience entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rt.svc.Profile.DeleteWorkExperience(cmd.Context(), args[0])
			return rt.updated(cmd, "Experience removed", user, err)
		},
	})
	return cmd
}

func newChildrenCmd(rt *runtime) *cobra.Command {
	var (
		form validation.ChildForm
		age  int
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a child to your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.ask("name", "Child's name", &form.Name); err != nil {
				return err
			}
			if err := rt.ask("grade", "Grade", &form.Grade); err != nil {
				return err
			}
			if err := rt.ask("school", "School", &form.School); err != nil {
				return err
			}
			form.Age = age
			user, err := rt.svc.Profile.AddChild(cmd.Context(), form)
			return rt.updated(cmd, "Child added", user, err)
		},
	}
	add.Flags().StringVar(&form.Name, "name", "", "child's name")
	add.Flags().IntVar(&age, "age", 0, "child's age")
	add.Flags().StringVar(&form.Grade, "grade", "", "school grade")
	add.Flags().StringVar(&form.School, "school", "", "school name")
	add.Flags().StringSliceVar(&form.Subjects, "subjects", nil, "subjects of interest, comma separated")

	cmd := &cobra.Command{Use: "children", Short: "Manage your children"}
	cmd.AddCommand(add, &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a child",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rt.svc.Profile.DeleteChild(cmd.Context(), args[0])
			return rt.updated(cmd, "Child removed", user, err)
		},
	})
	return cmd
}

func newCertificateCmd(rt *runtime) *cobra.Command {
	var in service.CertificateInput
	add := &cobra.Command{
		Use:   "add <file>...",
		Short: "Upload a certificate (PDF or DOCX, up to 10MB each)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.ask("name", "Certificate name", &in.CertName); err != nil {
				return err
			}
			if err := rt.ask("school", "Issuing school", &in.SchoolName); err != nil {
				return err
			}
			if err := rt.ask("year", "Year", &in.Year); err != nil {
				return err
			}
			in.Files = in.Files[:0]
			for _, path := range args {
				f, err := readFile(path)
				if err != nil {
					return err
				}
				in.Files = append(in.Files, f)
			}
			user, err := rt.svc.Profile.AddCertificate(cmd.Context(), in)
			return rt.updated(cmd, "Certificate uploaded", user, err)
		},
	}
	add.Flags().StringVar(&in.CertName, "name", "", "certificate name")
	add.Flags().StringVar(&in.SchoolName, "school", "", "issuing school")
	add.Flags().StringVar(&in.Year, "year", "", "year obtained")

	cmd := &cobra.Command{Use: "certificate", Short: "Manage certificates"}
	cmd.AddCommand(add)
	return cmd
}

func newPictureCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "picture <file>",
		Short: "Replace your profile picture (image up to 5MB)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFile(args[0])
			if err != nil {
				return err
			}
			user, err := rt.svc.Profile.UpdatePicture(cmd.Context(), f)
			return rt.updated(cmd, "Picture updated", user, err)
		},
	}
}
