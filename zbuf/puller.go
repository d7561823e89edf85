package zbuf

//go:generate go tool mockgen -destination=mock/mock_puller.go -package=mock . Puller
