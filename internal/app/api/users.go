package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/middleware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/repository"
)

func registerUserRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("/register", registerUser)
		users.POST("/login", loginUser)
		users.POST("/logout", middleware.AuthMiddleware(), logoutUser)
		users.GET("/me", middleware.AuthMiddleware(), getCurrentUser)
	}
}

func registerUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Заполните логин и пароль"})
		return
	}

	hash, err := repository.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
	}

	if err := repo.CreateUser(c.Request.Context(), &user); err != nil {
		logrus.Error("Ошибка создания пользователя: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user created", "user_id": user.UserID})
}

func loginUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ctx := c.Request.Context()
	user, err := repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil || !repository.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token := uuid.NewString()
	if err := repo.Redis.SetToken(ctx, token, user.UserID, conf.TokenTTL); err != nil {
		logrus.Error("Ошибка сохранения токена в Redis: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	_ = repo.Redis.CacheUser(ctx, user)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"user_id":      user.UserID,
			"username":     user.Username,
			"is_moderator": user.IsModerator,
		},
	})
}

func logoutUser(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && auth[:7] == "Bearer " {
		_ = repo.Redis.DeleteToken(c.Request.Context(), auth[7:])
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func getCurrentUser(c *gin.Context) {
	user, err := repo.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      user.UserID,
		"username":     user.Username,
		"is_moderator": user.IsModerator,
	})
}
