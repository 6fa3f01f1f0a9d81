package validators

import "go.mongodb.org/mongo-driver/bson"

var PackageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "is_active", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},
			"is_active": bson.M{
				"bsonType": "bool",
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var SubPackageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"package_id", "name", "duration_min", "is_active", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"package_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"duration_min": bson.M{
				"bsonType": "int",
				"minimum":  15,
				"maximum":  480,
			},
			"is_active": bson.M{
				"bsonType": "bool",
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var AddOnValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "price_cents", "is_active", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"price_cents": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},
			"is_active": bson.M{
				"bsonType": "bool",
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var PriceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"sub_package_id", "vehicle_type", "amount_cents", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"sub_package_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"vehicle_type": bson.M{
				"bsonType": "string",
				"enum":     []string{"sedan", "suv", "truck", "van"},
			},
			"amount_cents": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
