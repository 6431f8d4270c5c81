package security

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")

	if secret == "" {
		if err := godotenv.Load(); err != nil {
			log.Printf("could not load .env: %v", err)
		}
		secret = os.Getenv("JWT_SECRET")
	}

	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtSecret = []byte(secret)
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.Select("id", "username", "password_hash", "role").From("users").Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID string, role string, username string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 120).Unix(), // 5 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// CurrentUserID returns the authenticated user id stored by JWTMiddleware.
func CurrentUserID(c *gin.Context) (int, error) {
	raw, ok := c.Get("userID")
	if !ok {
		return 0, fmt.Errorf("no authenticated user in context")
	}

	idStr, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("userID is not a string")
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("malformed userID claim: %w", err)
	}

	return id, nil
}

// CurrentRole returns the authenticated role stored by JWTMiddleware.
func CurrentRole(c *gin.Context) roles.Role {
	raw, ok := c.Get("role")
	if !ok {
		return ""
	}
	roleStr, ok := raw.(string)
	if !ok {
		return ""
	}
	return roles.Role(roleStr)
}
