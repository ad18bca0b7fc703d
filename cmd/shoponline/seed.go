package main

import (
	"context"
	"log/slog"
	"strings"

	"shoponline/internal/domain/entity"
	"shoponline/internal/usecase"
	"shoponline/internal/usecase/impl"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newSeedCommand() *cobra.Command {
	var (
		username string
		password string
		email    string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an administrator account",
		Long:  `Create an account holding the Admin role. Roles themselves are seeded by the migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				users  usecase.UserUsecase
				logger *slog.Logger
			)

			return runOnce(cmd.Context(), fx.Options(
				injectInfra(),
				injectRepo(),
				injectService(),
				fx.Provide(impl.NewUserService),
				fx.Populate(&users, &logger),
			), func(ctx context.Context) error {
				roleID := entity.RoleIDAdmin
				input := &usecase.CreateUserInput{
					Username: username,
					Password: password,
					RoleID:   &roleID,
				}
				if e := strings.TrimSpace(email); e != "" {
					input.Email = &e
				}

				out, err := users.Create(ctx, input)
				if err != nil {
					return errors.Wrap(err, "failed to create admin")
				}

				logger.InfoContext(ctx, "Admin created", slog.Uint64("userID", uint64(out.User.ID)), slog.String("username", out.User.Username))

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "admin", "Admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password (required)")
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
