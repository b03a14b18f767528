package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Account Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {"title": "Account Ledger API", "version": "1.0.0"},
  "paths": {
    "/customers": {
      "post": {
        "summary": "Create customer",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["name", "address", "pin"], "properties": {"name": {"type": "string"}, "address": {"type": "string"}, "pin": {"type": "string"}}}
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      },
      "get": {
        "summary": "Get customer by id",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {
            "name": "id",
            "in": "query",
            "required": true,
            "schema": {"type": "string"}
          }
        ],
        "responses": {
          "200": {"description": "Customer fetched"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Customer not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/verify-pin": {
      "post": {
        "summary": "Verify customer pin",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["customerId", "pin"], "properties": {"customerId": {"type": "string"}, "pin": {"type": "string"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Pin verified"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Customer not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts": {
      "post": {
        "summary": "Create checking or savings account",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["customerId", "type"], "properties": {"customerId": {"type": "string"}, "type": {"type": "string", "enum": ["checking", "savings"]}, "currency": {"type": "string", "example": "EUR"}, "initialDeposit": {"type": "string"}}}
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Customer not found"},
          "500": {"description": "Server error"}
        }
      },
      "get": {
        "summary": "List accounts, or get one by account number",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {
            "name": "accountNumber",
            "in": "query",
            "required": false,
            "schema": {"type": "string", "pattern": "^[0-9]{8}$"}
          }
        ],
        "responses": {
          "200": {"description": "Accounts fetched"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/deposit": {
      "post": {
        "summary": "Deposit funds",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["accountNumber", "amount"], "properties": {"accountNumber": {"type": "string", "pattern": "^[0-9]{8}$"}, "amount": {"type": "string"}, "currency": {"type": "string"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Deposited"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "409": {"description": "Account locked or closed"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/withdraw": {
      "post": {
        "summary": "Withdraw funds",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["accountNumber", "amount", "pin"], "properties": {"accountNumber": {"type": "string", "pattern": "^[0-9]{8}$"}, "amount": {"type": "string"}, "currency": {"type": "string"}, "pin": {"type": "string"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Withdrawn"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "409": {"description": "Account locked or closed"},
          "422": {"description": "Insufficient balance"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/lock": {
      "post": {
        "summary": "Lock account",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["accountNumber"], "properties": {"accountNumber": {"type": "string", "pattern": "^[0-9]{8}$"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Locked"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/unlock": {
      "post": {
        "summary": "Unlock account",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["accountNumber"], "properties": {"accountNumber": {"type": "string", "pattern": "^[0-9]{8}$"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Unlocked"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/close": {
      "post": {
        "summary": "Close and delete account",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["accountNumber"], "properties": {"accountNumber": {"type": "string", "pattern": "^[0-9]{8}$"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Closed"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/currency": {
      "post": {
        "summary": "Change account currency",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["accountNumber", "currency"], "properties": {"accountNumber": {"type": "string", "pattern": "^[0-9]{8}$"}, "currency": {"type": "string"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Currency changed"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "409": {"description": "Account closed"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/overdraft": {
      "post": {
        "summary": "Set overdraft limit of a checking account",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["accountNumber", "limit"], "properties": {"accountNumber": {"type": "string", "pattern": "^[0-9]{8}$"}, "limit": {"type": "string"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Limit set"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/lock-overdrawn": {
      "post": {
        "summary": "Lock every overdrawn account",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": [], "properties": {}}
            }
          }
        },
        "responses": {
          "200": {"description": "Accounts locked"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/customers/minimum-balance": {
      "get": {
        "summary": "Customers holding an account with at least the given balance",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {
            "name": "minimum",
            "in": "query",
            "required": true,
            "schema": {"type": "string"}
          }
        ],
        "responses": {
          "200": {"description": "Customers fetched"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/transfer-funds": {
      "post": {
        "summary": "Transfer between accounts",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["debitAccountNumber", "creditAccountNumber", "amount", "pin"], "properties": {"debitAccountNumber": {"type": "string", "pattern": "^[0-9]{8}$"}, "creditAccountNumber": {"type": "string", "pattern": "^[0-9]{8}$"}, "amount": {"type": "string"}, "narration": {"type": "string", "maxLength": 140}, "pin": {"type": "string"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Transaction successful"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "409": {"description": "Account locked or closed"},
          "422": {"description": "Insufficient balance"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/currencies": {
      "get": {
        "summary": "List currencies and their rates to the base currency",
        "security": [
          {"BasicAuth": []}
        ],
        "responses": {
          "200": {"description": "Currencies fetched"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/convert": {
      "post": {
        "summary": "Convert an amount between currencies",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["amount", "fromCcy", "toCcy"], "properties": {"amount": {"type": "string"}, "fromCcy": {"type": "string"}, "toCcy": {"type": "string"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Converted"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/instruments": {
      "get": {
        "summary": "List instruments, or get one by id",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {
            "name": "id",
            "in": "query",
            "required": false,
            "schema": {"type": "string"}
          }
        ],
        "responses": {
          "200": {"description": "Instruments fetched"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Instrument not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/orders": {
      "post": {
        "summary": "Submit a limit order",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["accountNumber", "instrumentId", "side", "limitPrice"], "properties": {"accountNumber": {"type": "string", "pattern": "^[0-9]{8}$"}, "instrumentId": {"type": "string"}, "side": {"type": "string", "enum": ["buy", "sell"]}, "quantity": {"type": "integer", "minimum": 1}, "limitPrice": {"type": "string"}, "timeoutSeconds": {"type": "integer", "minimum": 0}}}
            }
          }
        },
        "responses": {
          "202": {"description": "Order accepted"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account or instrument not found"},
          "503": {"description": "Shutting down"},
          "500": {"description": "Server error"}
        }
      },
      "get": {
        "summary": "Get order by reference",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {
            "name": "reference",
            "in": "query",
            "required": true,
            "schema": {"type": "string"}
          }
        ],
        "responses": {
          "200": {"description": "Order fetched"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Order not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/orders/cancel": {
      "post": {
        "summary": "Cancel a pending order",
        "security": [
          {"BasicAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["reference"], "properties": {"reference": {"type": "string"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Order cancelled"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Order not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/ws/prices": {
      "get": {
        "summary": "Websocket stream of instrument prices",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {
            "name": "instrumentId",
            "in": "query",
            "required": true,
            "schema": {"type": "string"}
          }
        ],
        "responses": {
          "101": {"description": "Switching protocols"},
          "404": {"description": "Instrument not found"}
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {"type": "http", "scheme": "basic"}
    }
  }
}`
