package validators

import "go.mongodb.org/mongo-driver/bson"

var PrivilegedUserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"full_name", "email", "is_active", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"full_name":  bson.M{"bsonType": "string", "minLength": 1, "maxLength": 200},
			"email":      bson.M{"bsonType": "string"},
			"company":    bson.M{"bsonType": "string"},
			"is_active":  bson.M{"bsonType": "bool"},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
