package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tutorlink/internal/service"
)

// Services son las dependencias que usan los comandos.
type Services struct {
	Auth    *service.AuthService
	Browse  *service.BrowseService
	Profile *service.ProfileService
	Contact *service.ContactService
	Logger  *zap.Logger
}

// Loader construye los servicios una vez por invocación. close libera recursos.
type Loader func(ctx context.Context) (svc *Services, close func(), err error)

type runtime struct {
	load     Loader
	prompter Prompter
	output   string

	svc   *Services
	close func()
}

// Option ajusta el comando raíz.
type Option func(*runtime)

// WithPrompter reemplaza los prompts interactivos (huh por defecto).
func WithPrompter(p Prompter) Option {
	return func(r *runtime) { r.prompter = p }
}

// Execute corre tutorctl con los argumentos del proceso y libera los recursos al terminar.
func Execute(ctx context.Context, load Loader, opts ...Option) error {
	root, rt := newRoot(load, opts...)
	defer rt.stop()
	return root.ExecuteContext(ctx)
}

// NewRootCmd arma el árbol de comandos de tutorctl.
func NewRootCmd(load Loader, opts ...Option) *cobra.Command {
	root, _ := newRoot(load, opts...)
	return root
}

func newRoot(load Loader, opts ...Option) (*cobra.Command, *runtime) {
	rt := &runtime{load: load, prompter: newHuhPrompter()}
	for _, opt := range opts {
		opt(rt)
	}

	root := &cobra.Command{
		Use:           "tutorctl",
		Short:         "Browse tutors and manage your tutoring profile from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.start(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&rt.output, "output", "o", formatText, "output format (text, json, yaml)")

	root.AddCommand(
		newLoginCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newRegisterCmd(rt),
		newBrowseCmd(rt),
		newTutorCmd(rt),
		newContactCmd(rt),
		newReviewCmd(rt),
		newProfileCmd(rt),
	)
	return root, rt
}

// start carga los servicios y restaura la sesión guardada, una sola vez por proceso.
func (rt *runtime) start(ctx context.Context) error {
	if rt.svc != nil {
		return nil
	}
	if err := validateFormat(rt.output); err != nil {
		return err
	}
	if rt.load == nil {
		return errors.New("no service loader configured")
	}
	svc, closeFn, err := rt.load(ctx)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	rt.svc = svc
	rt.close = closeFn
	if rt.svc.Logger == nil {
		rt.svc.Logger = zap.NewNop()
	}
	if err := rt.svc.Auth.Restore(ctx); err != nil {
		rt.svc.Logger.Warn("could not restore saved session", zap.Error(err))
	}
	return nil
}

func (rt *runtime) stop() {
	if rt.close != nil {
		rt.close()
		rt.close = nil
	}
}
