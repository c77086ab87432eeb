package webgl

// WebGL 1 enumerants. Values match the native GL ones where both exist.
const (
	NO_ERROR                      = 0
	INVALID_ENUM                  = 0x0500
	INVALID_VALUE                 = 0x0501
	INVALID_OPERATION             = 0x0502
	OUT_OF_MEMORY                 = 0x0505
	INVALID_FRAMEBUFFER_OPERATION = 0x0506
	CONTEXT_LOST_WEBGL            = 0x9242

	DEPTH_BUFFER_BIT   = 0x0100
	STENCIL_BUFFER_BIT = 0x0400
	COLOR_BUFFER_BIT   = 0x4000

	POINTS         = 0x0000
	LINES          = 0x0001
	LINE_LOOP      = 0x0002
	LINE_STRIP     = 0x0003
	TRIANGLES      = 0x0004
	TRIANGLE_STRIP = 0x0005
	TRIANGLE_FAN   = 0x0006

	BLEND                    = 0x0BE2
	CULL_FACE                = 0x0B44
	DEPTH_TEST               = 0x0B71
	DITHER                   = 0x0BD0
	POLYGON_OFFSET_FILL      = 0x8037
	SAMPLE_ALPHA_TO_COVERAGE = 0x809E
	SAMPLE_COVERAGE          = 0x80A0
	SCISSOR_TEST             = 0x0C11
	STENCIL_TEST             = 0x0B90

	ZERO                = 0
	ONE                 = 1
	SRC_COLOR           = 0x0300
	ONE_MINUS_SRC_COLOR = 0x0301
	SRC_ALPHA           = 0x0302
	ONE_MINUS_SRC_ALPHA = 0x0303
	DST_ALPHA           = 0x0304
	ONE_MINUS_DST_ALPHA = 0x0305
	DST_COLOR           = 0x0306
	ONE_MINUS_DST_COLOR = 0x0307
	SRC_ALPHA_SATURATE  = 0x0308

	CONSTANT_COLOR           = 0x8001
	ONE_MINUS_CONSTANT_COLOR = 0x8002
	CONSTANT_ALPHA           = 0x8003
	ONE_MINUS_CONSTANT_ALPHA = 0x8004
	BLEND_COLOR              = 0x8005

	FUNC_ADD              = 0x8006
	FUNC_SUBTRACT         = 0x800A
	FUNC_REVERSE_SUBTRACT = 0x800B

	NEVER    = 0x0200
	LESS     = 0x0201
	EQUAL    = 0x0202
	LEQUAL   = 0x0203
	GREATER  = 0x0204
	NOTEQUAL = 0x0205
	GEQUAL   = 0x0206
	ALWAYS   = 0x0207

	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	STREAM_DRAW          = 0x88E0
	STATIC_DRAW          = 0x88E4
	DYNAMIC_DRAW         = 0x88E8

	BYTE           = 0x1400
	UNSIGNED_BYTE  = 0x1401
	SHORT          = 0x1402
	UNSIGNED_SHORT = 0x1403
	INT            = 0x1404
	UNSIGNED_INT   = 0x1405
	FLOAT          = 0x1406

	FRAGMENT_SHADER   = 0x8B30
	VERTEX_SHADER     = 0x8B31
	SHADER_TYPE       = 0x8B4F
	DELETE_STATUS     = 0x8B80
	COMPILE_STATUS    = 0x8B81
	LINK_STATUS       = 0x8B82
	VALIDATE_STATUS   = 0x8B83
	ATTACHED_SHADERS  = 0x8B85
	ACTIVE_UNIFORMS   = 0x8B86
	ACTIVE_ATTRIBUTES = 0x8B89

	VENDOR                           = 0x1F00
	RENDERER                         = 0x1F01
	VERSION                          = 0x1F02
	MAX_TEXTURE_SIZE                 = 0x0D33
	MAX_VERTEX_ATTRIBS               = 0x8869
	MAX_COMBINED_TEXTURE_IMAGE_UNITS = 0x8B4D

	TEXTURE_2D                  = 0x0DE1
	TEXTURE_CUBE_MAP            = 0x8513
	TEXTURE_CUBE_MAP_POSITIVE_X = 0x8515
	TEXTURE_CUBE_MAP_NEGATIVE_X = 0x8516
	TEXTURE_CUBE_MAP_POSITIVE_Y = 0x8517
	TEXTURE_CUBE_MAP_NEGATIVE_Y = 0x8518
	TEXTURE_CUBE_MAP_POSITIVE_Z = 0x8519
	TEXTURE_CUBE_MAP_NEGATIVE_Z = 0x851A
	TEXTURE0                    = 0x84C0
	TEXTURE_MAG_FILTER          = 0x2800
	TEXTURE_MIN_FILTER          = 0x2801
	TEXTURE_WRAP_S              = 0x2802
	TEXTURE_WRAP_T              = 0x2803
	NEAREST                     = 0x2600
	LINEAR                      = 0x2601
	NEAREST_MIPMAP_NEAREST      = 0x2700
	LINEAR_MIPMAP_NEAREST       = 0x2701
	NEAREST_MIPMAP_LINEAR       = 0x2702
	LINEAR_MIPMAP_LINEAR        = 0x2703
	REPEAT                      = 0x2901
	CLAMP_TO_EDGE               = 0x812F
	MIRRORED_REPEAT             = 0x8370

	ALPHA           = 0x1906
	RGB             = 0x1907
	RGBA            = 0x1908
	LUMINANCE       = 0x1909
	LUMINANCE_ALPHA = 0x190A

	UNPACK_ALIGNMENT                   = 0x0CF5
	PACK_ALIGNMENT                     = 0x0D05
	UNPACK_FLIP_Y_WEBGL                = 0x9240
	UNPACK_PREMULTIPLY_ALPHA_WEBGL     = 0x9241
	UNPACK_COLORSPACE_CONVERSION_WEBGL = 0x9243
	BROWSER_DEFAULT_WEBGL              = 0x9244

	FRAMEBUFFER              = 0x8D40
	RENDERBUFFER             = 0x8D41
	COLOR_ATTACHMENT0        = 0x8CE0
	DEPTH_ATTACHMENT         = 0x8D00
	STENCIL_ATTACHMENT       = 0x8D20
	DEPTH_STENCIL_ATTACHMENT = 0x821A
	FRAMEBUFFER_COMPLETE     = 0x8CD5
	FRAMEBUFFER_UNSUPPORTED  = 0x8CDD
	RGBA4                    = 0x8056
	RGB5_A1                  = 0x8057
	RGB565                   = 0x8D62
	DEPTH_COMPONENT16        = 0x81A5
	STENCIL_INDEX8           = 0x8D48
	DEPTH_STENCIL            = 0x84F9
)

// Native enumerants with no WebGL 1 name.
const (
	glMajorVersion     = 0x821B
	glRGBA8            = 0x8058
	glDepthComponent24 = 0x81A6
	glDepth24Stencil8  = 0x88F0
)
