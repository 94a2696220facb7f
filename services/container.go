package services

import "marksync/repositories"

type Container struct {
	Auth      AuthService
	Bookmarks BookmarkService
	Folders   FolderService
	Reorder   ReorderService
	Settings  SettingsService
	Sync      SyncService
	Transfer  TransferService
}

func NewContainer(repos repositories.Container) *Container {
	return &Container{
		Auth:      NewAuthService(repos.Users, repos.OAuthStates),
		Bookmarks: NewBookmarkService(repos.Stores, repos.Items),
		Folders:   NewFolderService(repos.Stores, repos.Items),
		Reorder:   NewReorderService(repos.Stores, repos.Items),
		Settings:  NewSettingsService(repos.Stores, repos.Settings),
		Sync:      NewSyncService(repos.Stores, repos.Items, repos.Settings),
		Transfer:  NewTransferService(repos.Stores, repos.Items, repos.Settings),
	}
}
