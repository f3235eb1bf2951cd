package services

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"elevateu-backend/internal/models"
	"elevateu-backend/internal/repository"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type UserService struct {
	users    *repository.UserRepo
	resolver *IdentityResolver
}

func NewUserService(users *repository.UserRepo, resolver *IdentityResolver) *UserService {
	return &UserService{users: users, resolver: resolver}
}

// Create handles first-sign-in registration. It is idempotent: when a user
// with the same external id or email already exists, that record is returned
// instead of creating a duplicate. Role comes from the caller; it is decided
// by the identity provider, never inferred here.
func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, bool, error) {
	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if len(fieldErrors) > 0 {
		return nil, false, &ValidationError{Fields: fieldErrors}
	}

	existing, err := s.users.FindExisting(ctx, req.ExternalID, req.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	role := req.Role
	if role == "" {
		role = "student"
	}
	user := &models.User{
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Email:      req.Email,
		Role:       role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *UserService) Get(ctx context.Context, ref string) (*models.User, error) {
	resolved, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return resolved.User, nil
}

func (s *UserService) Update(ctx context.Context, ref string, req *models.UpdateUserRequest) (*models.User, error) {
	resolved, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Email != nil {
		if !emailRegex.MatchString(*req.Email) {
			return nil, &ValidationError{Fields: map[string]string{"email": "Invalid email format"}}
		}
		set["email"] = *req.Email
	}
	if req.Role != nil {
		set["role"] = *req.Role
	}
	if len(set) == 0 {
		return resolved.User, nil
	}

	var updated *models.User
	if resolved.User.ExternalID != "" {
		updated, err = s.users.UpdateByExternalID(ctx, resolved.User.ExternalID, set)
	} else {
		updated, err = s.users.UpdateByID(ctx, resolved.User.ID, set)
	}
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &NotFoundError{Message: "User not found"}
	}
	return updated, nil
}
