package utils

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExtractActorFromToken pulls the authenticated user id out of the Bearer
// token. Authentication itself happens upstream; this service only consumes
// the identity.
func ExtractActorFromToken(tokenString string) (primitive.ObjectID, error) {
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return primitive.NilObjectID, fmt.Errorf("JWT_SECRET is not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("error parsing token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return primitive.NilObjectID, fmt.Errorf("invalid token")
	}

	rawID, exists := claims["userId"]
	if !exists {
		return primitive.NilObjectID, fmt.Errorf("userId claim not found in token")
	}

	idHex, ok := rawID.(string)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("userId claim has unexpected type")
	}

	actorID, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid userId claim format")
	}
	return actorID, nil
}

// ActorFromRequest resolves the acting user from the Authorization header.
func ActorFromRequest(r *http.Request) (primitive.ObjectID, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return primitive.NilObjectID, fmt.Errorf("missing Authorization header")
	}
	return ExtractActorFromToken(strings.TrimPrefix(authHeader, "Bearer "))
}
