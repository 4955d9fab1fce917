package picvault

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/kunleadeyemi/picvault/auth"
	"github.com/kunleadeyemi/picvault/imgur"
)

// maxImageBytes is the upload size limit, matching the imgur file-size
// cap. Larger request bodies are rejected with 413.
const maxImageBytes = 10 << 20

func RegisterUserHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		req := registerUserRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := svc.RegisterUser(req); err != nil {
			encodeError(err, w)
			return
		}

		w.WriteHeader(http.StatusCreated)
		encodeMessage("user registered successfully", w)
	})
}

func LoginHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		req, err := decodeCredentials(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := svc.ValidateCredentials(req); err != nil {
			encodeError(err, w)
			return
		}

		encodeMessage("login successful", w)
	})
}

func TokenHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		req, err := decodeCredentials(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		token, err := svc.IssueToken(req)
		if err != nil {
			encodeError(err, w)
			return
		}

		json.NewEncoder(w).Encode(map[string]interface{}{"token": token})
	})
}

func UpdatePhoneHandler(svc Service) http.Handler {
	return authedHandler(func(w http.ResponseWriter, r *http.Request, username string) {
		var req struct {
			PhoneNumber string `json:"phoneNumber"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := svc.UpdatePhoneNumber(username, req.PhoneNumber); err != nil {
			encodeError(err, w)
			return
		}

		encodeMessage("phone number updated successfully", w)
	})
}

func ProfileHandler(svc Service) http.Handler {
	return authedHandler(func(w http.ResponseWriter, r *http.Request, username string) {
		user, err := svc.Profile(username)
		if err != nil {
			encodeError(err, w)
			return
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"user":   user,
			"images": user.ImageURLs(),
		})
	})
}

func UploadImageHandler(svc ImageService) http.Handler {
	return authedHandler(func(w http.ResponseWriter, r *http.Request, username string) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				json.NewEncoder(w).Encode(map[string]interface{}{"error": "image too large"})
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		image, err := io.ReadAll(file)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		ref, err := svc.UploadImage(r.Context(), username, image)
		if err != nil {
			encodeError(err, w)
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ref)
	})
}

func ListImagesHandler(svc ImageService) http.Handler {
	return authedHandler(func(w http.ResponseWriter, r *http.Request, username string) {
		urls, err := svc.ListImages(r.Context(), username)
		if err != nil {
			encodeError(err, w)
			return
		}

		json.NewEncoder(w).Encode(map[string]interface{}{"images": urls})
	})
}

func DeleteImageHandler(svc ImageService) http.Handler {
	return authedHandler(func(w http.ResponseWriter, r *http.Request, username string) {
		refID := r.URL.Query().Get("id")
		if refID == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := svc.DeleteImage(r.Context(), username, refID); err != nil {
			encodeError(err, w)
			return
		}

		encodeMessage("image deleted successfully", w)
	})
}

func GetImageHandler(svc ImageService) http.Handler {
	return authedHandler(func(w http.ResponseWriter, r *http.Request, username string) {
		imageID := httprouter.ParamsFromContext(r.Context()).ByName("imageId")

		url, err := svc.GetImage(r.Context(), username, imageID)
		if err != nil {
			encodeError(err, w)
			return
		}

		json.NewEncoder(w).Encode(map[string]interface{}{"url": url})
	})
}

// authedHandler resolves the identity bound by the auth gate. A protected
// route reached without a binding is rejected here, before any business
// logic runs.
func authedHandler(h func(w http.ResponseWriter, r *http.Request, username string)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		username, ok := auth.UsernameFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{"error": "unauthenticated"})
			return
		}

		h(w, r, username)
	})
}

func encodeError(err error, w http.ResponseWriter) {
	var remoteErr *imgur.RemoteError

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, ErrExistingUsername):
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidPassword):
		w.WriteHeader(http.StatusUnprocessableEntity)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrImageNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.As(err, &remoteErr):
		w.WriteHeader(http.StatusBadGateway)
	default:
		w.WriteHeader(http.StatusInternalServerError)
		err = errors.New("internal server error")
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
}

func encodeMessage(msg string, w http.ResponseWriter) {
	json.NewEncoder(w).Encode(map[string]interface{}{"message": msg})
}

func decodeCredentials(body io.Reader) (validateCredentialsRequest, error) {
	req := validateCredentialsRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return validateCredentialsRequest{}, err
	}
	return req, nil
}
