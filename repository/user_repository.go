package repository

import "bnpl-agent/domain"

type UserRepository interface {
	FindByID(id string) (domain.UserProfile, bool)
	List() []domain.UserProfile
}
