package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	config "github.com/mdiallo/cotisation-manager-go/config"
	models "github.com/mdiallo/cotisation-manager-go/models"
)

func signToken(secret string, userID primitive.ObjectID, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.Hex(),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func issueTokenPair(cfg *config.Config, userID primitive.ObjectID) (string, string, error) {
	access, err := signToken(cfg.JWTSecret, userID, cfg.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := signToken(cfg.JWTRefreshSecret, userID, cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Username string `json:"username" binding:"required,min=3"`
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=6"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// username/email must be unique
		count, err := col.CountDocuments(ctx, bson.M{"$or": []bson.M{
			{"username": input.Username},
			{"email": input.Email},
		}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check existing users"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already in use"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}

		now := time.Now()
		user := models.User{
			ID:           primitive.NewObjectID(),
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if _, err := col.InsertOne(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
			return
		}

		access, refresh, err := issueTokenPair(cfg, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"user":          user,
			"access_token":  access,
			"refresh_token": refresh,
		})
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Identifier string `json:"identifier" binding:"required"` // username or email
			Password   string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err := col.FindOne(ctx, bson.M{"$or": []bson.M{
			{"username": input.Identifier},
			{"email": input.Identifier},
		}}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		now := time.Now()
		_, _ = col.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"last_login": now}})
		user.LastLogin = &now

		access, refresh, err := issueTokenPair(cfg, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user":          user,
			"access_token":  access,
			"refresh_token": refresh,
		})
	}
}

// ---------------- REFRESH ----------------
func RefreshToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(input.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTRefreshSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		uid, _ := claims["user_id"].(string)
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		// the user must still exist
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Err(); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		access, refresh, err := issueTokenPair(cfg, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token":  access,
			"refresh_token": refresh,
		})
	}
}

// ---------------- CURRENT USER ----------------
func Me(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err = cfg.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch user"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// ---------------- UPDATE PROFILE ----------------
func UpdateProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Username != "" {
			update["username"] = input.Username
		}
		if input.Email != "" {
			update["email"] = input.Email
		}
		if input.Password != "" {
			if len(input.Password) < 6 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "password too short"})
				return
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
				return
			}
			update["password_hash"] = string(hash)
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
	}
}
