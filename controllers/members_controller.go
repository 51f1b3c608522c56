package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/mdiallo/cotisation-manager-go/config"
	models "github.com/mdiallo/cotisation-manager-go/models"
	utils "github.com/mdiallo/cotisation-manager-go/utils"
)

// ---------------- CREATE ----------------
func CreateMember(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Nom       string `form:"nom" binding:"required"`
			Prenom    string `form:"prenom" binding:"required"`
			Telephone string `form:"telephone"`
			Email     string `form:"email"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// --- Optional photo upload ---
		var photoURL string
		if fileHeader, err := c.FormFile("photo"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			url, err := utils.UploadMemberPhoto(file, fileHeader)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "photo upload failed",
					"details": err.Error(),
				})
				return
			}
			photoURL = url
		}

		now := time.Now()
		member := models.Member{
			ID:        primitive.NewObjectID(),
			Nom:       input.Nom,
			Prenom:    input.Prenom,
			Telephone: input.Telephone,
			Email:     input.Email,
			PhotoURL:  photoURL,
			CreatedAt: now,
			UpdatedAt: now,
		}

		col := cfg.Collection("membres")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, member); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create member"})
			return
		}

		c.JSON(http.StatusCreated, member)
	}
}

// ---------------- LIST ----------------
func ListMembers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.Collection("membres")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "nom", Value: 1}, {Key: "prenom", Value: 1}})
		cursor, err := col.Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch members"})
			return
		}

		var members []models.Member
		if err := cursor.All(ctx, &members); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode members"})
			return
		}

		if len(members) == 0 {
			c.JSON(http.StatusOK, []models.Member{})
			return
		}

		// --- ETag from the most recently updated member ---
		latest := members[0]
		for _, m := range members {
			if m.UpdatedAt.After(latest.UpdatedAt) {
				latest = m
			}
		}
		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, members)
	}
}

// ---------------- GET ----------------
func GetMember(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var member models.Member
		err = cfg.Collection("membres").FindOne(ctx, bson.M{"_id": oid}).Decode(&member)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}

		etag := utils.GenerateETag(member.ID, member.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, member)
	}
}

// ---------------- UPDATE ----------------
func UpdateMember(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
			return
		}

		var input struct {
			Nom       string `form:"nom"`
			Prenom    string `form:"prenom"`
			Telephone string `form:"telephone"`
			Email     string `form:"email"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Nom != "" {
			update["nom"] = input.Nom
		}
		if input.Prenom != "" {
			update["prenom"] = input.Prenom
		}
		if input.Telephone != "" {
			update["telephone"] = input.Telephone
		}
		if input.Email != "" {
			update["email"] = input.Email
		}

		// --- Optional photo replacement ---
		if fileHeader, err := c.FormFile("photo"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			url, err := utils.UploadMemberPhoto(file, fileHeader)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "photo upload failed",
					"details": err.Error(),
				})
				return
			}
			update["photo_url"] = url
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		col := cfg.Collection("membres")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update member"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "member updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
// Deleting a member does not cascade to its payment rows; orphaned
// rows are tolerated and skipped by the reconciliation joins.
func DeleteMember(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
			return
		}

		col := cfg.Collection("membres")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var member models.Member
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&member); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete member"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}

		// best effort, the member row is already gone
		if member.PhotoURL != "" {
			_ = utils.DeleteFromCloudinary(member.PhotoURL)
		}

		c.JSON(http.StatusOK, gin.H{"message": "member deleted", "id": oid.Hex()})
	}
}
