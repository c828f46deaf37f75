package avatar

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/internal/storage"
	applogger "github.com/ElSocialismo/plataforma-freelancer/pkg/logger"
	"github.com/ElSocialismo/plataforma-freelancer/repository"
)

// DefaultMaxBytes is the upload ceiling applied when none is configured.
const DefaultMaxBytes = 5 << 20

// Raster formats the content sniffer can actually identify. SVG is text to
// the sniffer, so it is rejected along with everything else non-image.
var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// UseCase runs the avatar update transaction: validate, persist the asset,
// rebind the profile reference, and roll the asset back if the rebind fails.
type UseCase struct {
	profiles repository.ProfileRepository
	assets   storage.AssetStore
	maxBytes int64
	logger   *zap.Logger
}

func New(profiles repository.ProfileRepository, assets storage.AssetStore, maxBytes int64, logger *zap.Logger) *UseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles: profiles,
		assets:   assets,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Update validates and stores the new avatar, then rebinds the profile
// reference under the version observed before the write. Either the asset is
// stored and referenced, or neither: a failed rebind deletes the asset.
func (uc *UseCase) Update(ctx context.Context, userID string, data []byte) (string, error) {
	if int64(len(data)) > uc.maxBytes {
		return "", domain.ErrPayloadTooLarge
	}
	if len(data) == 0 {
		return "", domain.ErrInvalidPayload
	}

	// Sniffed from the bytes, never trusted from the request header.
	contentType := http.DetectContentType(data)
	ext, ok := extByType[contentType]
	if !ok {
		return "", domain.ErrUnsupportedMedia
	}

	profile, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	// Storage writes finish even if the client disconnects mid-request so we
	// never leave an asset persisted but unaccounted for.
	writeCtx := context.WithoutCancel(ctx)

	ref, err := uc.assets.Save(writeCtx, userID, data, ext)
	if err != nil {
		return "", err
	}

	if err := uc.profiles.UpdateAvatarRef(writeCtx, userID, ref, profile.Version); err != nil {
		if delErr := uc.assets.Delete(writeCtx, ref); delErr != nil {
			applogger.WithRequestID(ctx, uc.logger).Error("avatar rollback failed, asset orphaned",
				zap.String("user_id", userID),
				zap.String("ref", ref),
				zap.Error(delErr))
		}
		return "", err
	}

	applogger.WithRequestID(ctx, uc.logger).Info("avatar updated",
		zap.String("user_id", userID),
		zap.String("ref", ref),
		zap.String("content_type", contentType))
	return ref, nil
}
