package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	bcryptadapter "github.com/unievents/unievents-api/internal/adapters/bcrypt"
	"github.com/unievents/unievents-api/internal/bootstrap"
	"github.com/unievents/unievents-api/internal/data"
	"github.com/unievents/unievents-api/internal/domain/model"
	"github.com/unievents/unievents-api/internal/service"
)

type createUserOptions struct {
	UniversityID string
	Email        string
	Name         string
	Password     string
	Admin        bool
	Timeout      time.Duration
}

type checkPermissionOptions struct {
	UniversityID string
	WorkspaceID  string
	Permission   string
	Timeout      time.Duration
}

type listRolesOptions struct {
	WorkspaceID string
	Timeout     time.Duration
}

func runSeedPermissions(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet("seed-permissions")
	timeout := fs.Duration("timeout", defaultCommandTimeout, "Maximum duration to wait for seeding")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requirePositiveTimeout(*timeout); err != nil {
		return err
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		catalog := service.NewCatalogService(service.CatalogServiceOptions{
			Repo:   data.NewPermissionRepo(db),
			Logger: cmdCtx.Logger,
		})
		return bootstrap.SeedCatalog(ctx, catalog, cmdCtx.Logger)
	})
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateUserFlags(args, os.Stdin)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		users := data.NewUserRepo(db)
		auth := service.NewAuthService(service.AuthServiceOptions{
			Users:    users,
			Sessions: service.NewSessionService(service.SessionServiceOptions{Repo: data.NewSessionRepo(db)}),
			Hasher:   bcryptadapter.New(cmdCtx.Config.Auth.BcryptCost),
			Logger:   cmdCtx.Logger,
		})
		u, createErr := auth.CreateUser(ctx, service.RegisterInput{
			Name:         opts.Name,
			Email:        opts.Email,
			Password:     opts.Password,
			UniversityID: opts.UniversityID,
		}, opts.Admin)
		if createErr != nil {
			return fmt.Errorf("create user: %w", createErr)
		}
		return writef(os.Stdout, "created user %s (university id %s, admin=%t)\n", u.ID, u.UniversityID, u.IsAdmin)
	})
}

func parseCreateUserFlags(args []string, stdin io.Reader) (createUserOptions, error) {
	fs := newFlagSet("create-user")
	var opts createUserOptions
	fs.StringVar(&opts.UniversityID, "university-id", "", "Numeric university id (required)")
	fs.StringVar(&opts.Email, "email", "", "Email address (required)")
	fs.StringVar(&opts.Name, "name", "", "Display name")
	fs.StringVar(&opts.Password, "password", "", `Password; "-" reads one line from stdin (required)`)
	fs.BoolVar(&opts.Admin, "admin", false, "Mark the account as platform admin")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait")

	if err := fs.Parse(args); err != nil {
		return createUserOptions{}, err
	}
	if opts.UniversityID == "" || opts.Email == "" || opts.Password == "" {
		return createUserOptions{}, errors.New("--university-id, --email and --password are required")
	}
	if opts.Password == "-" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return createUserOptions{}, fmt.Errorf("read password: %w", err)
		}
		opts.Password = strings.TrimRight(line, "\r\n")
		if opts.Password == "" {
			return createUserOptions{}, errors.New("empty password on stdin")
		}
	}
	if err := requirePositiveTimeout(opts.Timeout); err != nil {
		return createUserOptions{}, err
	}
	return opts, nil
}

func runCheckPermission(cmdCtx *commandContext, args []string) error {
	opts, err := parseCheckPermissionFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		user, lookupErr := data.NewUserRepo(db).GetByUniversityID(ctx, opts.UniversityID)
		if lookupErr != nil {
			return fmt.Errorf("lookup user %s: %w", opts.UniversityID, lookupErr)
		}
		authz := service.NewAuthorizationService(service.AuthorizationServiceOptions{
			Members: data.NewMemberRepo(db),
			Roles:   data.NewRoleRepo(db),
			Logger:  cmdCtx.Logger,
		})
		allowed, canErr := authz.Can(ctx, user.ID, opts.WorkspaceID, opts.Permission)
		if canErr != nil {
			return canErr
		}
		return printDecision(os.Stdout, opts, allowed)
	})
}

func parseCheckPermissionFlags(args []string) (checkPermissionOptions, error) {
	fs := newFlagSet("check-permission")
	var opts checkPermissionOptions
	fs.StringVar(&opts.UniversityID, "university-id", "", "University id of the user (required)")
	fs.StringVar(&opts.WorkspaceID, "workspace", "", "Workspace id (required)")
	fs.StringVar(&opts.Permission, "permission", "", "Permission name, e.g. MANAGE_ROLES (required)")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait")

	if err := fs.Parse(args); err != nil {
		return checkPermissionOptions{}, err
	}
	opts.Permission = strings.ToUpper(strings.TrimSpace(opts.Permission))
	if opts.UniversityID == "" || opts.WorkspaceID == "" || opts.Permission == "" {
		return checkPermissionOptions{}, errors.New("--university-id, --workspace and --permission are required")
	}
	if err := requirePositiveTimeout(opts.Timeout); err != nil {
		return checkPermissionOptions{}, err
	}
	return opts, nil
}

func printDecision(w io.Writer, opts checkPermissionOptions, allowed bool) error {
	verdict := "DENY"
	if allowed {
		verdict = "ALLOW"
	}
	return writef(w, "%s %s in workspace %s: %s\n", opts.UniversityID, opts.Permission, opts.WorkspaceID, verdict)
}

func runListRoles(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet("list-roles")
	var opts listRolesOptions
	fs.StringVar(&opts.WorkspaceID, "workspace", "", "Workspace id (required)")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.WorkspaceID == "" {
		return errors.New("--workspace is required")
	}
	if err := requirePositiveTimeout(opts.Timeout); err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		authz := service.NewAuthorizationService(service.AuthorizationServiceOptions{
			Members: data.NewMemberRepo(db),
			Roles:   data.NewRoleRepo(db),
			Logger:  cmdCtx.Logger,
		})
		roles, err := authz.ListRoles(ctx, opts.WorkspaceID)
		if err != nil {
			return err
		}
		return printRoles(os.Stdout, roles)
	})
}

func printRoles(w io.Writer, roles []model.RoleWithPermissions) error {
	if len(roles) == 0 {
		return writeln(w, "No roles found.")
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writeln(tw, "ID\tNAME\tPERMISSIONS"); err != nil {
		return err
	}
	for _, r := range roles {
		perms := "-"
		if len(r.Permissions) > 0 {
			perms = strings.Join(r.Permissions, ",")
		}
		if err := writef(tw, "%s\t%s\t%s\n", r.ID, r.Name, perms); err != nil {
			return err
		}
	}
	return tw.Flush()
}
