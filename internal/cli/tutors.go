package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tutorlink/internal/listing"
	"tutorlink/internal/validation"
)

func newBrowseCmd(rt *runtime) *cobra.Command {
	criteria := listing.NewCriteria()
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List tutors, filtered by search term, subject, location, rating and availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if criteria.MinRating < 0 || criteria.MinRating > 5 {
				return fmt.Errorf("--min-rating must be between 0 and 5")
			}
			switch criteria.Availability {
			case listing.AvailabilityAny, listing.AvailabilityWeekdays, listing.AvailabilityWeekends:
			default:
				return fmt.Errorf("--availability must be one of any, weekdays, weekends")
			}
			res, err := rt.svc.Browse.Browse(cmd.Context(), criteria)
			if err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			done, err := encode(cmd.OutOrStdout(), rt.output, res)
			if done || err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderBrowse(res))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&criteria.SearchTerm, "search", "s", "", "match name, subject or bio")
	f.StringVar(&criteria.Subject, "subject", listing.All, "exact subject, or all")
	f.StringVar(&criteria.Location, "location", listing.All, "exact location, or all")
	f.Float64Var(&criteria.MinRating, "min-rating", 0, "minimum average rating (0-5)")
	f.StringVar(&criteria.Availability, "availability", listing.AvailabilityAny, "any, weekdays or weekends")
	return cmd
}

func newTutorCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tutor <id>",
		Short: "Show a tutor's full profile and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := rt.svc.Browse.Tutor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			done, err := encode(cmd.OutOrStdout(), rt.output, t)
			if done || err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTutorDetail(*t))
			return nil
		},
	}
}

func newContactCmd(rt *runtime) *cobra.Command {
	var form validation.ContactForm
	cmd := &cobra.Command{
		Use:   "contact <tutor-id>",
		Short: "Send a message to a tutor (parents only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefill, err := rt.svc.Contact.ContactPrefill()
			if err != nil {
				return err
			}
			if strings.TrimSpace(form.FullName) == "" {
				form.FullName = prefill.FullName
			}
			if strings.TrimSpace(form.Email) == "" {
				form.Email = prefill.Email
			}
			if strings.TrimSpace(form.Phone) == "" {
				form.Phone = prefill.Phone
			}
			if err := rt.ask("phone", "Phone", &form.Phone); err != nil {
				return err
			}
			if err := rt.ask("message", "Message", &form.Message); err != nil {
				return err
			}
			if err := rt.svc.Contact.ContactTutor(cmd.Context(), args[0], form); err != nil {
				return fmt.Errorf("contact tutor: %w", err)
			}
			notify(cmd.OutOrStdout(), "Message sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&form.FullName, "name", "", "your name (defaults to the profile)")
	cmd.Flags().StringVar(&form.Email, "email", "", "reply email (defaults to the profile)")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "phone (defaults to the profile)")
	cmd.Flags().StringVarP(&form.Message, "message", "m", "", "message body")
	return cmd
}

func newReviewCmd(rt *runtime) *cobra.Command {
	var (
		rating  string
		comment string
	)
	cmd := &cobra.Command{
		Use:   "review <tutor-id>",
		Short: "Rate a tutor from 1 to 5 with a comment (parents only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.choose("rating", "Rating", []string{"5", "4", "3", "2", "1"}, &rating); err != nil {
				return err
			}
			if err := rt.ask("comment", "Comment", &comment); err != nil {
				return err
			}
			n, err := strconv.Atoi(strings.TrimSpace(rating))
			if err != nil {
				return fmt.Errorf("--rating must be a number from 1 to 5")
			}
			form := validation.ReviewForm{Rating: n, Comment: comment}
			if err := rt.svc.Contact.AddReview(cmd.Context(), args[0], form); err != nil {
				return fmt.Errorf("add review: %w", err)
			}
			notify(cmd.OutOrStdout(), "Review submitted")
			return nil
		},
	}
	cmd.Flags().StringVarP(&rating, "rating", "r", "", "rating from 1 to 5")
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "review text (at least 10 characters)")
	return cmd
}
