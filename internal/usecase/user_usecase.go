package usecase

import (
	"context"
	"errors"
	"time"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/converter"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/domain/repository"
	"medical-admin-dashboard/internal/service"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

type UserUsecase interface {
	QueryUsers(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.UserListResponse, error)
	GetUserByID(ctx context.Context, id string) (*dto.UserResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUserByID(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUserByID(ctx context.Context, id string) error
}

type userUsecase struct {
	store     repository.RecordStore
	paginator *aggregation.Paginator
	log       *logrus.Logger
	userRepo  repository.UserRepository
	emails    *service.EmailCipher
}

func NewUserUsecase(
	store repository.RecordStore,
	paginator *aggregation.Paginator,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	emails *service.EmailCipher,
) UserUsecase {
	return &userUsecase{
		store:     store,
		paginator: paginator,
		log:       log,
		userRepo:  userRepo,
		emails:    emails,
	}
}

// QueryUsers lists every account except master accounts, with decrypted
// emails and the number of accounts per listed role. An email filter is
// matched against the stored ciphertext.
func (u *userUsecase) QueryUsers(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.UserListResponse, error) {
	if email, ok := filter["email"].(string); ok {
		enc, err := u.emails.Encrypt(service.NormalizeEmail(email))
		if err != nil {
			u.log.Warnf("Failed to encrypt email filter: %+v", err)
			return nil, err
		}
		encrypted := make(aggregation.Filter, len(filter))
		for k, v := range filter {
			encrypted[k] = v
		}
		encrypted["email"] = enc
		filter = encrypted
	}

	pipeline := aggregation.Pipeline{
		aggregation.Match{Filter: aggregation.Filter{"role": aggregation.Ne(entity.RoleMaster)}},
		aggregation.Project{
			aggregation.As("id", aggregation.Field("_id")),
			aggregation.As("name", aggregation.Field("name")),
			aggregation.As("email", aggregation.Field("email")),
			aggregation.As("role", aggregation.Field("role")),
		},
	}

	var (
		page   *aggregation.QueryResult[dto.UserListItem]
		counts []dto.RoleCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = aggregation.Paginate[dto.UserListItem](gctx, u.paginator, aggregation.Query{
			Collection:  entity.CollectionUsers,
			Pipeline:    pipeline,
			Filter:      filter,
			Options:     opts,
			TieBreak:    []string{"id"},
			DefaultSort: aggregation.Sort{{Field: "name"}},
		})
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = u.countRoles(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to query users: %+v", err)
		return nil, err
	}

	for i := range page.Results {
		email, err := u.emails.Decrypt(page.Results[i].Email)
		if err != nil {
			u.log.Warnf("Failed to decrypt email of user %s: %+v", page.Results[i].ID.Hex(), err)
			return nil, err
		}
		page.Results[i].Email = email
	}

	return &dto.UserListResponse{
		QueryResult: *page,
		RolesCount:  counts,
	}, nil
}

func (u *userUsecase) countRoles(ctx context.Context) ([]dto.RoleCount, error) {
	roles := make([]interface{}, len(entity.ListedRoles))
	for i, r := range entity.ListedRoles {
		roles[i] = r
	}
	rows, err := u.store.Aggregate(ctx, entity.CollectionUsers, aggregation.Pipeline{
		aggregation.Match{Filter: aggregation.Filter{"role": aggregation.In(roles...)}},
		aggregation.Group{
			ID:           aggregation.Field("role"),
			Accumulators: []aggregation.Accumulator{aggregation.SumOf("count", aggregation.Lit(1))},
		},
		aggregation.Project{
			aggregation.As("role", aggregation.Field("_id")),
			aggregation.As("count", aggregation.Field("count")),
		},
		aggregation.Sort{{Field: "role"}},
	})
	if err != nil {
		return nil, err
	}
	return aggregation.DecodeAll[dto.RoleCount](rows)
}

func (u *userUsecase) GetUserByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := u.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.toResponse(user)
}

func (u *userUsecase) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := service.NormalizeEmail(req.Email)
	encrypted, err := u.emails.Encrypt(email)
	if err != nil {
		u.log.Warnf("Failed to encrypt email: %+v", err)
		return nil, err
	}

	taken, err := u.userRepo.EmailTaken(ctx, encrypted, primitive.NilObjectID)
	if err != nil {
		u.log.Warnf("Failed to check email: %+v", err)
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = entity.RoleUser
	}
	now := time.Now().UTC()
	user := &entity.User{
		Name:      req.Name,
		Email:     encrypted,
		Password:  string(hashedPassword),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	u.log.WithField("user_id", user.ID.Hex()).Info("User created")
	return converter.UserToResponse(user, email), nil
}

func (u *userUsecase) UpdateUserByID(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := u.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Email != nil {
		encrypted, err := u.emails.Encrypt(service.NormalizeEmail(*req.Email))
		if err != nil {
			u.log.Warnf("Failed to encrypt email: %+v", err)
			return nil, err
		}
		taken, err := u.userRepo.EmailTaken(ctx, encrypted, user.ID)
		if err != nil {
			u.log.Warnf("Failed to check email: %+v", err)
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		fields["email"] = encrypted
		user.Email = encrypted
	}
	if req.Name != nil {
		fields["name"] = *req.Name
		user.Name = *req.Name
	}
	if req.Role != nil {
		fields["role"] = *req.Role
		user.Role = *req.Role
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		fields["password"] = string(hashedPassword)
	}
	user.UpdatedAt = time.Now().UTC()
	fields["updatedAt"] = user.UpdatedAt

	if err := u.userRepo.Update(ctx, user.ID, fields); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}
	return u.toResponse(user)
}

func (u *userUsecase) DeleteUserByID(ctx context.Context, id string) error {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}
	if err := u.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}
	u.log.WithField("user_id", id).Info("User deleted")
	return nil
}

func (u *userUsecase) findUser(ctx context.Context, id string) (*entity.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (u *userUsecase) toResponse(user *entity.User) (*dto.UserResponse, error) {
	email, err := u.emails.Decrypt(user.Email)
	if err != nil {
		u.log.Warnf("Failed to decrypt email of user %s: %+v", user.ID.Hex(), err)
		return nil, err
	}
	return converter.UserToResponse(user, email), nil
}
