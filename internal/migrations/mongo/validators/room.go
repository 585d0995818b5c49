package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "company", "available", "locked", "access_code", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "objectId"},
			"name":        bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			"description": bson.M{"bsonType": "string", "maxLength": 500},
			"company":     bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			"available":   bson.M{"bsonType": "bool"},
			"locked":      bson.M{"bsonType": "bool"},
			"access_code": bson.M{
				"bsonType": "string",
				"pattern":  "^[1-9][0-9]{5}$",
			},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
