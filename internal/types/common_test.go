package types

import (
	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
	"github.com/AltairaLabs/docspace-mcp/internal/resolver"
	"github.com/AltairaLabs/docspace-mcp/internal/uploader"
)

var (
	_ API               = (*docspace.Client)(nil)
	_ OperationResolver = (*resolver.Resolver)(nil)
	_ ContentUploader   = (*uploader.Uploader)(nil)
)
