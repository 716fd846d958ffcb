package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitelog/intake/internal/masterdata"
	"github.com/sitelog/intake/internal/platform/db"
	"github.com/sitelog/intake/internal/rbac"
	"github.com/sitelog/intake/internal/users"
)

// UserCreator creates accounts.
type UserCreator interface {
	Create(ctx context.Context, req users.CreateRequest) (users.User, error)
}

// ReferenceCreator creates reference entities.
type ReferenceCreator interface {
	Create(ctx context.Context, kind masterdata.Kind, req masterdata.CreateRequest) (masterdata.Entity, error)
}

// SeedUserOptions are the flags of "seed user".
type SeedUserOptions struct {
	Username string
	Name     string
	Role     string
	Password string
}

// SeedUser creates one account.
func SeedUser(ctx context.Context, svc UserCreator, opts SeedUserOptions) (users.User, error) {
	role, ok := rbac.ParseRole(opts.Role)
	if !ok {
		return users.User{}, fmt.Errorf("unknown role %q", opts.Role)
	}
	name := opts.Name
	if name == "" {
		name = opts.Username
	}
	return svc.Create(ctx, users.CreateRequest{
		Name:     name,
		Username: opts.Username,
		Role:     string(role),
		Password: opts.Password,
	})
}

// SeedReferences creates each named entity of kind, reusing existing names.
func SeedReferences(ctx context.Context, svc ReferenceCreator, kind masterdata.Kind, names []string, plate string) ([]masterdata.Entity, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	out := make([]masterdata.Entity, 0, len(names))
	for _, name := range names {
		e, err := svc.Create(ctx, kind, masterdata.CreateRequest{Name: name, DefaultPlate: plate})
		if err != nil {
			return out, fmt.Errorf("seed %s %q: %w", kind, name, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func newSeedCommand() *cobra.Command {
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Create users and reference data",
	}

	var userOpts SeedUserOptions
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := db.New(cmd.Context(), cfg.PGDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			u, err := SeedUser(cmd.Context(), users.NewService(users.NewRepository(pool)), userOpts)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "created user %s (%s) id=%s\n", u.Username, u.Role, u.ID)
			return nil
		},
	}
	userCmd.Flags().StringVar(&userOpts.Username, "username", "", "login name")
	userCmd.Flags().StringVar(&userOpts.Name, "name", "", "display name (defaults to username)")
	userCmd.Flags().StringVar(&userOpts.Role, "role", string(rbac.RoleOperator), "SUPER_ADMIN, ADMIN, MANAGER, OPERATOR or VIEWER")
	userCmd.Flags().StringVar(&userOpts.Password, "password", "", "optional password")
	_ = userCmd.MarkFlagRequired("username")

	var (
		kind  string
		names []string
		plate string
	)
	refCmd := &cobra.Command{
		Use:   "reference",
		Short: "Create materials, drivers, suppliers or projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := db.New(cmd.Context(), cfg.PGDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			created, err := SeedReferences(cmd.Context(), masterdata.NewService(masterdata.NewRepository(pool)), masterdata.Kind(kind), names, plate)
			for _, e := range created {
				printf(cmd.OutOrStdout(), "%s %s id=%s\n", kind, e.Name, e.ID)
			}
			return err
		},
	}
	refCmd.Flags().StringVar(&kind, "kind", "", "material, driver, supplier or project")
	refCmd.Flags().StringSliceVar(&names, "name", nil, "entity name; repeatable")
	refCmd.Flags().StringVar(&plate, "plate", "", "default plate for drivers")
	_ = refCmd.MarkFlagRequired("kind")
	_ = refCmd.MarkFlagRequired("name")

	seed.AddCommand(userCmd, refCmd)
	return seed
}
