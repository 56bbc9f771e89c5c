package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type RoleType struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Code        string             `bson:"code,omitempty" json:"code,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}
