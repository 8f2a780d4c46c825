package redis

import (
	"fmt"

	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/storage"
)

// keys builds every Redis key under a common prefix
type keys struct {
	prefix string
}

func (k keys) user(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", k.prefix, id)
}

// emailIndex maps an email to its user ID
func (k keys) emailIndex(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", k.prefix, email)
}

// usernameIndex maps a username to its user ID
func (k keys) usernameIndex(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", k.prefix, username)
}

func (k keys) creature(id model.CreatureID) string {
	return fmt.Sprintf("%s:creature:%s", k.prefix, id)
}

func (k keys) creatureNameIndex(name string) string {
	return fmt.Sprintf("%s:idx:creature_name:%s", k.prefix, storage.NameKey(name))
}

// creatures is the SET of all creature IDs
func (k keys) creatures() string {
	return fmt.Sprintf("%s:creatures", k.prefix)
}

func (k keys) category(id model.CategoryID) string {
	return fmt.Sprintf("%s:category:%s", k.prefix, id)
}

func (k keys) categoryNameIndex(name string) string {
	return fmt.Sprintf("%s:idx:category_name:%s", k.prefix, storage.NameKey(name))
}

func (k keys) categories() string {
	return fmt.Sprintf("%s:categories", k.prefix)
}

func (k keys) question(id model.QuestionID) string {
	return fmt.Sprintf("%s:question:%s", k.prefix, id)
}

func (k keys) questions() string {
	return fmt.Sprintf("%s:questions", k.prefix)
}
